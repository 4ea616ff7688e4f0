// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a registered account.
// Email and username are stored lower-cased; uniqueness is enforced on the
// folded form so "A@x.com" and "a@x.com" are the same identity.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the lower-cased address used for authentication.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Username is the lower-cased public handle.
	Username string `gorm:"uniqueIndex;size:50;not null"`

	// FullName is optional display metadata.
	FullName string `gorm:"size:100"`

	// HashedPassword holds the bcrypt hash. Plaintext is never stored.
	HashedPassword string `gorm:"size:255;not null"`

	// IsActive is flipped to false on deactivation. There is no hard
	// delete path for users.
	IsActive bool `gorm:"not null;default:true"`

	// IsVerified marks accounts that completed verification.
	IsVerified bool `gorm:"not null;default:false"`

	// CreatedAt is the timestamp when the user signed up.
	CreatedAt time.Time

	// LastLogin is updated on every successful login and token refresh.
	LastLogin *time.Time
}
