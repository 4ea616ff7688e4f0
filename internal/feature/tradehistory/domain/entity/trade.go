// Package entity defines the domain entities for the tradehistory feature.
package entity

import (
	"time"

	authentity "trading_backend/internal/feature/auth/domain/entity"
	stockentity "trading_backend/internal/feature/stocks/domain/entity"
)

// Trade types recorded in the history log.
const (
	TradeTypeBuy  = "BUY"
	TradeTypeSell = "SELL"
)

// Trade is one BUY or SELL event. The log is append-only: rows are never
// mutated or deleted once written.
type Trade struct {
	ID            uint      `gorm:"primaryKey"`
	UserID        uint      `gorm:"not null;index"`
	StockID       uint      `gorm:"not null;index"`
	TradeType     string    `gorm:"size:10;not null"`
	Quantity      float64   `gorm:"not null"`
	PricePerShare float64   `gorm:"not null"`
	TotalAmount   float64   `gorm:"not null"`
	TradeDate     time.Time `gorm:"not null;index"`
	CreatedAt     time.Time
	Notes         string `gorm:"size:500"`

	User  authentity.User   `gorm:"constraint:OnDelete:CASCADE"`
	Stock stockentity.Stock `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName keeps the table name the dashboard schema uses.
func (Trade) TableName() string { return "trade_history" }
