// Package entity defines the domain entities for the stocks feature.
package entity

import "time"

// Stock is a row in the reference table of tradable instruments.
// Symbols are stored upper-cased and unique.
type Stock struct {
	ID          uint   `gorm:"primaryKey"`
	Symbol      string `gorm:"uniqueIndex;size:10;not null"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"size:1000"`
	Sector      string `gorm:"size:100"`
	Exchange    string `gorm:"size:50"`
	Currency    string `gorm:"size:3;not null;default:USD"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
