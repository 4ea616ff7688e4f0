// Package entity defines the domain entities for the watchlist feature.
package entity

import (
	"time"

	authentity "trading_backend/internal/feature/auth/domain/entity"
	stockentity "trading_backend/internal/feature/stocks/domain/entity"
)

// Entry is a stock a user is watching, with an optional free-text note.
// At most one entry exists per (user, stock) pair.
type Entry struct {
	ID        uint      `gorm:"primaryKey"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_stock"`
	StockID   uint      `gorm:"not null;uniqueIndex:idx_watchlist_user_stock"`
	Notes     string    `gorm:"size:500"`
	DateAdded time.Time `gorm:"not null"`

	User  authentity.User   `gorm:"constraint:OnDelete:CASCADE"`
	Stock stockentity.Stock `gorm:"constraint:OnDelete:CASCADE"`
}

// TableName keeps the singular table name the dashboard schema uses.
func (Entry) TableName() string { return "watchlist" }
