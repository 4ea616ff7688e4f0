// Package entity defines the domain entities for the positions feature.
package entity

import (
	"time"

	authentity "trading_backend/internal/feature/auth/domain/entity"
	stockentity "trading_backend/internal/feature/stocks/domain/entity"
)

// Position is a user's current holding in one stock at an averaged cost
// basis. The (user_id, stock_id) pair is unique: repeated buys fold into
// the existing row, they never create a second one. A position with zero
// quantity must never persist; a full sell deletes the row.
type Position struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;uniqueIndex:idx_positions_user_stock"`
	StockID       uint      `gorm:"not null;uniqueIndex:idx_positions_user_stock"`
	Quantity      float64   `gorm:"not null"`
	PurchasePrice float64   `gorm:"not null"`
	PurchaseDate  time.Time `gorm:"not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	User  authentity.User   `gorm:"constraint:OnDelete:CASCADE"`
	Stock stockentity.Stock `gorm:"constraint:OnDelete:CASCADE"`
}

// TotalValue is the cost-basis value of the holding, not a market value.
func (p *Position) TotalValue() float64 {
	return p.Quantity * p.PurchasePrice
}
