// Package usecase implements the business logic for the watchlist feature.
package usecase

import "errors"

var (
	// ErrEntryNotFound is returned when no watchlist entry matches the id
	// or symbol for the requesting user.
	ErrEntryNotFound = errors.New("watchlist entry not found")

	// ErrAlreadyWatched is returned when adding a stock the user already
	// watches. The original entry is left untouched.
	ErrAlreadyWatched = errors.New("stock is already in watchlist")

	// ErrStockNotFound is returned when watching an unknown stock.
	ErrStockNotFound = errors.New("stock not found")
)
