// Package usecase implements the business logic for the tradehistory
// feature. The log itself is written by the positions store; this side
// only reads it.
package usecase

import (
	"context"

	"trading_backend/internal/feature/tradehistory/domain/entity"
)

// List paging bounds.
const (
	defaultListLimit = 100
	maxListLimit     = 1000
)

// TradeRepository abstracts read access to the append-only trade log.
type TradeRepository interface {
	// ListByUser returns the user's trades, newest first.
	ListByUser(ctx context.Context, userID uint, skip, limit int) ([]entity.Trade, error)

	// ListByUserAndStock narrows the log to one stock.
	ListByUserAndStock(ctx context.Context, userID, stockID uint, skip, limit int) ([]entity.Trade, error)
}

type tradeUsecase struct {
	trades TradeRepository
}

// NewTradeUsecase creates the trade history service.
func NewTradeUsecase(trades TradeRepository) *tradeUsecase {
	return &tradeUsecase{trades: trades}
}

// List returns the user's trade history, newest first.
func (u *tradeUsecase) List(ctx context.Context, userID uint, skip, limit int) ([]entity.Trade, error) {
	skip, limit = clamp(skip, limit)
	return u.trades.ListByUser(ctx, userID, skip, limit)
}

// ListForStock returns the user's trades in one stock, newest first.
func (u *tradeUsecase) ListForStock(ctx context.Context, userID, stockID uint, skip, limit int) ([]entity.Trade, error) {
	skip, limit = clamp(skip, limit)
	return u.trades.ListByUserAndStock(ctx, userID, stockID, skip, limit)
}

func clamp(skip, limit int) (int, int) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return skip, limit
}
