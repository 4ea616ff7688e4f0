package usecase

import (
	"context"

	"trading_backend/internal/feature/positions/domain/entity"
	stockentity "trading_backend/internal/feature/stocks/domain/entity"
)

// PositionUpdate names the fields a PUT may change.
type PositionUpdate struct {
	Quantity      *float64
	PurchasePrice *float64
}

// PortfolioSummary aggregates a user's holdings at cost basis. TotalValue
// is sum(quantity * purchase_price); nothing here is marked to market.
type PortfolioSummary struct {
	TotalValue     float64
	TotalPositions int64
	TotalStocks    int64
	Positions      []entity.Position
}

// PositionRepository abstracts persistence for positions. The open-or-add
// fold and the sell decrement are atomic inside the store: each runs in a
// single transaction that also appends the matching trade-history row, so
// concurrent calls for the same (user, stock) pair cannot double-average
// or oversell.
type PositionRepository interface {
	// OpenOrAdd creates the position or folds the buy into the existing
	// row at weighted-average cost. At most one row per (user, stock)
	// pair ever exists.
	OpenOrAdd(ctx context.Context, userID, stockID uint, quantity, price float64) (*entity.Position, error)

	// ListByUser returns all positions of one user with stocks preloaded.
	ListByUser(ctx context.Context, userID uint) ([]entity.Position, error)

	// FindByID retrieves one position, scoped to its owner.
	FindByID(ctx context.Context, userID, id uint) (*entity.Position, error)

	// Update applies an explicit edit to quantity and/or price.
	Update(ctx context.Context, userID, id uint, fields PositionUpdate) (*entity.Position, error)

	// Sell removes quantity shares. The returned bool is true when the
	// position was fully sold and therefore deleted.
	Sell(ctx context.Context, userID, id uint, quantity float64) (*entity.Position, bool, error)

	// Delete closes the position outright, logging a sell of the full
	// remaining quantity.
	Delete(ctx context.Context, userID, id uint) error

	// Summary aggregates the user's positions at cost basis.
	Summary(ctx context.Context, userID uint) (*PortfolioSummary, error)
}

// StockFinder resolves stock ids before a position is opened.
type StockFinder interface {
	FindByID(ctx context.Context, id uint) (*stockentity.Stock, error)
}

type positionUsecase struct {
	positions PositionRepository
	stocks    StockFinder
}

// NewPositionUsecase creates the position service.
func NewPositionUsecase(positions PositionRepository, stocks StockFinder) *positionUsecase {
	return &positionUsecase{positions: positions, stocks: stocks}
}

// Open records a buy. A first buy creates the position; a repeated buy
// into the same stock folds into it at weighted-average cost. This is the
// only place purchase_price changes outside an explicit edit.
func (u *positionUsecase) Open(ctx context.Context, userID, stockID uint, quantity, price float64) (*entity.Position, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if price <= 0 {
		return nil, ErrInvalidPrice
	}
	if _, err := u.stocks.FindByID(ctx, stockID); err != nil {
		return nil, ErrStockNotFound
	}
	return u.positions.OpenOrAdd(ctx, userID, stockID, quantity, price)
}

// List returns the user's positions.
func (u *positionUsecase) List(ctx context.Context, userID uint) ([]entity.Position, error) {
	return u.positions.ListByUser(ctx, userID)
}

// Get retrieves one of the user's positions.
func (u *positionUsecase) Get(ctx context.Context, userID, id uint) (*entity.Position, error) {
	return u.positions.FindByID(ctx, userID, id)
}

// Update applies an explicit edit to a position.
func (u *positionUsecase) Update(ctx context.Context, userID, id uint, fields PositionUpdate) (*entity.Position, error) {
	if fields.Quantity != nil && *fields.Quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if fields.PurchasePrice != nil && *fields.PurchasePrice <= 0 {
		return nil, ErrInvalidPrice
	}
	return u.positions.Update(ctx, userID, id, fields)
}

// Sell removes quantity shares from a position. Selling the exact held
// quantity closes (deletes) the position; overselling fails and leaves it
// untouched.
func (u *positionUsecase) Sell(ctx context.Context, userID, id uint, quantity float64) (*entity.Position, bool, error) {
	if quantity <= 0 {
		return nil, false, ErrInvalidQuantity
	}
	return u.positions.Sell(ctx, userID, id, quantity)
}

// Delete closes a position outright.
func (u *positionUsecase) Delete(ctx context.Context, userID, id uint) error {
	return u.positions.Delete(ctx, userID, id)
}

// Summary aggregates the user's portfolio at cost basis.
func (u *positionUsecase) Summary(ctx context.Context, userID uint) (*PortfolioSummary, error) {
	return u.positions.Summary(ctx, userID)
}
