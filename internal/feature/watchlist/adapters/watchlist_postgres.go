// Package adapters provides the repository implementations for the
// watchlist feature.
package adapters

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"trading_backend/internal/feature/watchlist/domain/entity"
	"trading_backend/internal/feature/watchlist/usecase"
)

// watchlistPostgres implements usecase.WatchlistRepository on GORM.
type watchlistPostgres struct {
	db *gorm.DB
}

var _ usecase.WatchlistRepository = (*watchlistPostgres)(nil)

// NewWatchlistPostgres creates the repository with the given gorm.DB handle.
func NewWatchlistPostgres(db *gorm.DB) *watchlistPostgres {
	return &watchlistPostgres{db: db}
}

// Create inserts the entry. The (user_id, stock_id) unique index turns a
// duplicate add into ErrAlreadyWatched without touching the original row.
func (r *watchlistPostgres) Create(ctx context.Context, e *entity.Entry) error {
	if e.DateAdded.IsZero() {
		e.DateAdded = time.Now().UTC()
	}
	if err := r.db.WithContext(ctx).Create(e).Error; err != nil {
		if isUniqueViolation(err) {
			return usecase.ErrAlreadyWatched
		}
		return err
	}
	return nil
}

// ListByUser returns all entries of one user, stocks preloaded, newest
// first.
func (r *watchlistPostgres) ListByUser(ctx context.Context, userID uint) ([]entity.Entry, error) {
	var entries []entity.Entry
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("user_id = ?", userID).
		Order("date_added DESC").
		Find(&entries).Error
	return entries, err
}

// FindByID retrieves one entry, scoped to its owner.
func (r *watchlistPostgres) FindByID(ctx context.Context, userID, id uint) (*entity.Entry, error) {
	var e entity.Entry
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("id = ? AND user_id = ?", id, userID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// FindByStockID retrieves the user's entry for one stock.
func (r *watchlistPostgres) FindByStockID(ctx context.Context, userID, stockID uint) (*entity.Entry, error) {
	var e entity.Entry
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("user_id = ? AND stock_id = ?", userID, stockID).
		First(&e).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrEntryNotFound
		}
		return nil, err
	}
	return &e, nil
}

// Update applies the explicitly named fields as a column map.
func (r *watchlistPostgres) Update(ctx context.Context, userID, id uint, fields usecase.EntryUpdate) (*entity.Entry, error) {
	cols := map[string]interface{}{}
	if fields.Notes != nil {
		cols["notes"] = *fields.Notes
	}

	if len(cols) > 0 {
		res := r.db.WithContext(ctx).Model(&entity.Entry{}).
			Where("id = ? AND user_id = ?", id, userID).
			Updates(cols)
		if res.Error != nil {
			return nil, res.Error
		}
		if res.RowsAffected == 0 {
			return nil, usecase.ErrEntryNotFound
		}
	}
	return r.FindByID(ctx, userID, id)
}

// Delete removes one entry, scoped to its owner.
func (r *watchlistPostgres) Delete(ctx context.Context, userID, id uint) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&entity.Entry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return usecase.ErrEntryNotFound
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
