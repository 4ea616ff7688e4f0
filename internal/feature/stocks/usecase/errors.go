// Package usecase implements the business logic for the stocks feature.
package usecase

import "errors"

var (
	// ErrStockNotFound is returned when no stock matches the id or symbol.
	ErrStockNotFound = errors.New("stock not found")

	// ErrSymbolTaken is returned when creating a stock whose upper-cased
	// symbol already exists.
	ErrSymbolTaken = errors.New("stock symbol already exists")
)
