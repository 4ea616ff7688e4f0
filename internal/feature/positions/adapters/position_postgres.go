// Package adapters provides the repository implementations for the
// positions feature.
package adapters

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"trading_backend/internal/feature/positions/domain/entity"
	"trading_backend/internal/feature/positions/usecase"
	tradeentity "trading_backend/internal/feature/tradehistory/domain/entity"
)

// foldRetries bounds the optimistic read-compute-update loop. Losing the
// race that many times in one transaction means something is wrong.
const foldRetries = 3

// positionPostgres implements usecase.PositionRepository on GORM.
type positionPostgres struct {
	db *gorm.DB
}

var _ usecase.PositionRepository = (*positionPostgres)(nil)

// NewPositionPostgres creates the repository with the given gorm.DB handle.
func NewPositionPostgres(db *gorm.DB) *positionPostgres {
	return &positionPostgres{db: db}
}

// OpenOrAdd creates the position or folds the buy into the existing row,
// and appends the BUY trade-history row, all in one transaction. The fold
// is an optimistic guarded UPDATE: it only lands if quantity and price
// are still the values that were read, otherwise the loop re-reads. A
// concurrent create is caught by the (user_id, stock_id) unique index and
// retried as a fold.
func (r *positionPostgres) OpenOrAdd(ctx context.Context, userID, stockID uint, quantity, price float64) (*entity.Position, error) {
	var out *entity.Position
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := openOrFold(tx, userID, stockID, quantity, price)
		if err != nil {
			return err
		}
		if err := appendTrade(tx, userID, stockID, tradeentity.TradeTypeBuy, quantity, price); err != nil {
			return err
		}
		// Reload with the stock attached for the response.
		if err := tx.Preload("Stock").First(p, p.ID).Error; err != nil {
			return err
		}
		out = p
		return nil
	})
	return out, err
}

func openOrFold(tx *gorm.DB, userID, stockID uint, quantity, price float64) (*entity.Position, error) {
	for attempt := 0; attempt < foldRetries; attempt++ {
		var existing entity.Position
		err := tx.Where("user_id = ? AND stock_id = ?", userID, stockID).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			p := &entity.Position{
				UserID:        userID,
				StockID:       stockID,
				Quantity:      quantity,
				PurchasePrice: price,
				PurchaseDate:  time.Now().UTC(),
			}
			if createErr := tx.Create(p).Error; createErr != nil {
				if isUniqueViolation(createErr) {
					// A concurrent buy created the row first; fold into it.
					continue
				}
				return nil, createErr
			}
			return p, nil
		}
		if err != nil {
			return nil, err
		}

		newQty, newPrice := averageCost(existing.Quantity, existing.PurchasePrice, quantity, price)
		res := tx.Model(&entity.Position{}).
			Where("id = ? AND quantity = ? AND purchase_price = ?",
				existing.ID, existing.Quantity, existing.PurchasePrice).
			Updates(map[string]interface{}{
				"quantity":       newQty,
				"purchase_price": newPrice,
			})
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			// The row moved under us; read it again.
			continue
		}
		existing.Quantity = newQty
		existing.PurchasePrice = newPrice
		return &existing, nil
	}
	return nil, fmt.Errorf("position fold for user %d stock %d did not settle after %d attempts", userID, stockID, foldRetries)
}

// averageCost folds a buy into a holding at weighted-average cost. The
// arithmetic runs on decimals so repeated folds do not accumulate binary
// float drift before storage.
func averageCost(oldQty, oldPrice, addQty, addPrice float64) (float64, float64) {
	q0 := decimal.NewFromFloat(oldQty)
	q1 := decimal.NewFromFloat(addQty)
	totalQty := q0.Add(q1)
	totalCost := q0.Mul(decimal.NewFromFloat(oldPrice)).
		Add(q1.Mul(decimal.NewFromFloat(addPrice)))

	avg, _ := totalCost.Div(totalQty).Float64()
	qty, _ := totalQty.Float64()
	return qty, avg
}

// ListByUser returns all positions of one user, stocks preloaded.
func (r *positionPostgres) ListByUser(ctx context.Context, userID uint) ([]entity.Position, error) {
	var positions []entity.Position
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("user_id = ?", userID).
		Order("id").
		Find(&positions).Error
	return positions, err
}

// FindByID retrieves one position, scoped to its owner.
func (r *positionPostgres) FindByID(ctx context.Context, userID, id uint) (*entity.Position, error) {
	var p entity.Position
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("id = ? AND user_id = ?", id, userID).
		First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrPositionNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Update applies the explicitly named fields as a column map.
func (r *positionPostgres) Update(ctx context.Context, userID, id uint, fields usecase.PositionUpdate) (*entity.Position, error) {
	cols := map[string]interface{}{}
	if fields.Quantity != nil {
		cols["quantity"] = *fields.Quantity
	}
	if fields.PurchasePrice != nil {
		cols["purchase_price"] = *fields.PurchasePrice
	}

	if len(cols) > 0 {
		res := r.db.WithContext(ctx).Model(&entity.Position{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(cols)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, usecase.ErrPositionNotFound
		}
	}
	return r.FindByID(ctx, userID, id)
}

// Sell decrements the position and appends a SELL trade row in one
// transaction. The decrement is guarded by quantity >= ? so a concurrent
// sell cannot push the holding negative; selling everything deletes the
// row, because zero-quantity positions must never persist.
func (r *positionPostgres) Sell(ctx context.Context, userID, id uint, quantity float64) (*entity.Position, bool, error) {
	var (
		out    *entity.Position
		closed bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p entity.Position
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrPositionNotFound
			}
			return err
		}

		res := tx.Model(&entity.Position{}).
			Where("id = ? AND quantity >= ?", p.ID, quantity).
			Update("quantity", gorm.Expr("quantity - ?", quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return usecase.ErrInsufficientShares
		}

		if err := tx.First(&p, p.ID).Error; err != nil {
			return err
		}
		if p.Quantity <= 0 {
			if err := tx.Delete(&entity.Position{}, p.ID).Error; err != nil {
				return err
			}
			closed = true
		} else {
			if err := tx.Preload("Stock").First(&p, p.ID).Error; err != nil {
				return err
			}
			out = &p
		}

		// Sells are recorded at the averaged cost basis of the holding.
		return appendTrade(tx, userID, p.StockID, tradeentity.TradeTypeSell, quantity, p.PurchasePrice)
	})
	return out, closed, err
}

// Delete closes the position outright, logging a SELL of the full
// remaining quantity.
func (r *positionPostgres) Delete(ctx context.Context, userID, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var p entity.Position
		if err := tx.Where("id = ? AND user_id = ?", id, userID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrPositionNotFound
			}
			return err
		}
		if err := tx.Delete(&entity.Position{}, p.ID).Error; err != nil {
			return err
		}
		return appendTrade(tx, userID, p.StockID, tradeentity.TradeTypeSell, p.Quantity, p.PurchasePrice)
	})
}

// Summary aggregates the user's positions at cost basis in one query,
// then attaches the full position list.
func (r *positionPostgres) Summary(ctx context.Context, userID uint) (*usecase.PortfolioSummary, error) {
	var row struct {
		TotalValue     float64
		TotalPositions int64
		TotalStocks    int64
	}
	err := r.db.WithContext(ctx).Model(&entity.Position{}).
		Where("user_id = ?", userID).
		Select("COALESCE(SUM(quantity * purchase_price), 0) AS total_value, COUNT(*) AS total_positions, COUNT(DISTINCT stock_id) AS total_stocks").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	positions, err := r.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &usecase.PortfolioSummary{
		TotalValue:     row.TotalValue,
		TotalPositions: row.TotalPositions,
		TotalStocks:    row.TotalStocks,
		Positions:      positions,
	}, nil
}

// appendTrade writes one row to the append-only trade log inside the
// caller's transaction.
func appendTrade(tx *gorm.DB, userID, stockID uint, tradeType string, quantity, price float64) error {
	return tx.Create(&tradeentity.Trade{
		UserID:        userID,
		StockID:       stockID,
		TradeType:     tradeType,
		Quantity:      quantity,
		PricePerShare: price,
		TotalAmount:   quantity * price,
		TradeDate:     time.Now().UTC(),
	}).Error
}

// isUniqueViolation reports whether err is a unique-constraint failure
// under postgres (SQLSTATE 23505) or the sqlite test driver.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
