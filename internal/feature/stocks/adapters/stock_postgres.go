// Package adapters provides the repository implementations for the stocks
// feature.
package adapters

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"trading_backend/internal/feature/stocks/domain/entity"
	"trading_backend/internal/feature/stocks/usecase"
)

// stockPostgres implements usecase.StockRepository on GORM.
type stockPostgres struct {
	db *gorm.DB
}

var _ usecase.StockRepository = (*stockPostgres)(nil)

// NewStockPostgres creates the repository with the given gorm.DB handle.
func NewStockPostgres(db *gorm.DB) *stockPostgres {
	return &stockPostgres{db: db}
}

// Create persists a stock row. Duplicate symbols map to ErrSymbolTaken.
func (r *stockPostgres) Create(ctx context.Context, s *entity.Stock) error {
	if err := r.db.WithContext(ctx).Create(s).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrSymbolTaken
		}
		return err
	}
	return nil
}

// List returns stocks ordered by symbol.
func (r *stockPostgres) List(ctx context.Context, offset, limit int) ([]entity.Stock, error) {
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).
		Order("symbol").
		Offset(offset).
		Limit(limit).
		Find(&stocks).Error
	return stocks, err
}

// Search matches the upper-cased query against symbol or name.
func (r *stockPostgres) Search(ctx context.Context, query string, limit int) ([]entity.Stock, error) {
	term := "%" + strings.ToUpper(query) + "%"
	var stocks []entity.Stock
	err := r.db.WithContext(ctx).
		Where("UPPER(symbol) LIKE ? OR UPPER(name) LIKE ?", term, term).
		Order("symbol").
		Limit(limit).
		Find(&stocks).Error
	return stocks, err
}

// FindByID retrieves a stock by id.
func (r *stockPostgres) FindByID(ctx context.Context, id uint) (*entity.Stock, error) {
	var s entity.Stock
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrStockNotFound
		}
		return nil, err
	}
	return &s, nil
}

// FindBySymbol retrieves a stock by its upper-cased symbol.
func (r *stockPostgres) FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	var s entity.Stock
	if err := r.db.WithContext(ctx).Where("symbol = ?", symbol).First(&s).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrStockNotFound
		}
		return nil, err
	}
	return &s, nil
}

// Update applies the explicitly named fields as a column map, so unknown
// fields can never be smuggled into the row.
func (r *stockPostgres) Update(ctx context.Context, id uint, fields usecase.StockUpdate) (*entity.Stock, error) {
	cols := map[string]interface{}{}
	if fields.Name != nil {
		cols["name"] = *fields.Name
	}
	if fields.Description != nil {
		cols["description"] = *fields.Description
	}
	if fields.Sector != nil {
		cols["sector"] = *fields.Sector
	}
	if fields.Exchange != nil {
		cols["exchange"] = *fields.Exchange
	}
	if fields.Currency != nil {
		cols["currency"] = *fields.Currency
	}

	if len(cols) > 0 {
		res := r.db.WithContext(ctx).Model(&entity.Stock{}).
			Where("id = ?", id).
			Updates(cols)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, usecase.ErrStockNotFound
		}
	}
	return r.FindByID(ctx, id)
}

// Delete removes a stock row; the database-level cascades take dependent
// positions, watchlist entries and trade history with it.
func (r *stockPostgres) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&entity.Stock{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrStockNotFound
	}
	return nil
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
