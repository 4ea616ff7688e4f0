// Package adapters provides the repository implementations for the
// tradehistory feature.
package adapters

import (
	"context"

	"gorm.io/gorm"

	"trading_backend/internal/feature/tradehistory/domain/entity"
	"trading_backend/internal/feature/tradehistory/usecase"
)

// tradePostgres implements usecase.TradeRepository on GORM.
type tradePostgres struct {
	db *gorm.DB
}

var _ usecase.TradeRepository = (*tradePostgres)(nil)

// NewTradePostgres creates the repository with the given gorm.DB handle.
func NewTradePostgres(db *gorm.DB) *tradePostgres {
	return &tradePostgres{db: db}
}

// ListByUser returns the user's trades, newest first, stocks preloaded.
func (r *tradePostgres) ListByUser(ctx context.Context, userID uint, skip, limit int) ([]entity.Trade, error) {
	var trades []entity.Trade
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("user_id = ?", userID).
		Order("trade_date DESC").
		Offset(skip).
		Limit(limit).
		Find(&trades).Error
	return trades, err
}

// ListByUserAndStock narrows the log to one stock, newest first.
func (r *tradePostgres) ListByUserAndStock(ctx context.Context, userID, stockID uint, skip, limit int) ([]entity.Trade, error) {
	var trades []entity.Trade
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("user_id = ? AND stock_id = ?", userID, stockID).
		Order("trade_date DESC").
		Offset(skip).
		Limit(limit).
		Find(&trades).Error
	return trades, err
}
