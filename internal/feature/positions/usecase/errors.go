// Package usecase implements the business logic for the positions feature.
package usecase

import "errors"

var (
	// ErrPositionNotFound is returned when no position matches the id for
	// the requesting user.
	ErrPositionNotFound = errors.New("position not found")

	// ErrStockNotFound is returned when opening a position against an
	// unknown stock id.
	ErrStockNotFound = errors.New("stock not found")

	// ErrInvalidQuantity is returned for zero or negative quantities.
	ErrInvalidQuantity = errors.New("quantity must be greater than 0")

	// ErrInvalidPrice is returned for zero or negative purchase prices.
	ErrInvalidPrice = errors.New("purchase price must be greater than 0")

	// ErrInsufficientShares is returned when selling more shares than the
	// position holds. The position is left unchanged.
	ErrInsufficientShares = errors.New("cannot sell more shares than owned")
)
