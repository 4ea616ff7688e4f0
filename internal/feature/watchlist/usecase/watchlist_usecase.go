package usecase

import (
	"context"
	"strings"

	stockentity "trading_backend/internal/feature/stocks/domain/entity"
	"trading_backend/internal/feature/watchlist/domain/entity"
)

// EntryUpdate names the fields a PUT may change.
type EntryUpdate struct {
	Notes *string
}

// WatchlistSummary is the count-plus-entries view of a user's watchlist.
type WatchlistSummary struct {
	TotalWatched int
	Entries      []entity.Entry
}

// WatchlistRepository abstracts persistence for watchlist entries.
type WatchlistRepository interface {
	// Create inserts the entry. Adding a stock the user already watches
	// fails with ErrAlreadyWatched and leaves the original untouched.
	Create(ctx context.Context, e *entity.Entry) error

	// ListByUser returns all entries of one user with stocks preloaded.
	ListByUser(ctx context.Context, userID uint) ([]entity.Entry, error)

	// FindByID retrieves one entry, scoped to its owner.
	FindByID(ctx context.Context, userID, id uint) (*entity.Entry, error)

	// FindByStockID retrieves the user's entry for one stock.
	FindByStockID(ctx context.Context, userID, stockID uint) (*entity.Entry, error)

	// Update applies an explicit edit to the entry's notes.
	Update(ctx context.Context, userID, id uint, fields EntryUpdate) (*entity.Entry, error)

	// Delete removes one entry, scoped to its owner.
	Delete(ctx context.Context, userID, id uint) error
}

// StockFinder resolves stocks by id or ticker symbol.
type StockFinder interface {
	FindByID(ctx context.Context, id uint) (*stockentity.Stock, error)
	FindBySymbol(ctx context.Context, symbol string) (*stockentity.Stock, error)
}

type watchlistUsecase struct {
	entries WatchlistRepository
	stocks  StockFinder
}

// NewWatchlistUsecase creates the watchlist service.
func NewWatchlistUsecase(entries WatchlistRepository, stocks StockFinder) *watchlistUsecase {
	return &watchlistUsecase{entries: entries, stocks: stocks}
}

// Add puts a stock on the user's watchlist.
func (u *watchlistUsecase) Add(ctx context.Context, userID, stockID uint, notes string) (*entity.Entry, error) {
	if _, err := u.stocks.FindByID(ctx, stockID); err != nil {
		return nil, ErrStockNotFound
	}
	e := &entity.Entry{UserID: userID, StockID: stockID, Notes: notes}
	if err := u.entries.Create(ctx, e); err != nil {
		return nil, err
	}
	return u.entries.FindByID(ctx, userID, e.ID)
}

// AddBySymbol puts a stock on the user's watchlist by ticker symbol.
func (u *watchlistUsecase) AddBySymbol(ctx context.Context, userID uint, symbol, notes string) (*entity.Entry, error) {
	stock, err := u.stocks.FindBySymbol(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return nil, ErrStockNotFound
	}
	e := &entity.Entry{UserID: userID, StockID: stock.ID, Notes: notes}
	if err := u.entries.Create(ctx, e); err != nil {
		return nil, err
	}
	return u.entries.FindByID(ctx, userID, e.ID)
}

// List returns the user's watchlist.
func (u *watchlistUsecase) List(ctx context.Context, userID uint) ([]entity.Entry, error) {
	return u.entries.ListByUser(ctx, userID)
}

// Get retrieves one of the user's entries.
func (u *watchlistUsecase) Get(ctx context.Context, userID, id uint) (*entity.Entry, error) {
	return u.entries.FindByID(ctx, userID, id)
}

// GetBySymbol retrieves the user's entry for a ticker symbol.
func (u *watchlistUsecase) GetBySymbol(ctx context.Context, userID uint, symbol string) (*entity.Entry, error) {
	stock, err := u.stocks.FindBySymbol(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
	if err != nil {
		return nil, ErrEntryNotFound
	}
	return u.entries.FindByStockID(ctx, userID, stock.ID)
}

// Update edits the notes of one entry.
func (u *watchlistUsecase) Update(ctx context.Context, userID, id uint, fields EntryUpdate) (*entity.Entry, error) {
	return u.entries.Update(ctx, userID, id, fields)
}

// Remove deletes one entry by id.
func (u *watchlistUsecase) Remove(ctx context.Context, userID, id uint) error {
	return u.entries.Delete(ctx, userID, id)
}

// RemoveBySymbol deletes the user's entry for a ticker symbol.
func (u *watchlistUsecase) RemoveBySymbol(ctx context.Context, userID uint, symbol string) error {
	entry, err := u.GetBySymbol(ctx, userID, symbol)
	if err != nil {
		return err
	}
	return u.entries.Delete(ctx, userID, entry.ID)
}

// Summary returns the watchlist with its count.
func (u *watchlistUsecase) Summary(ctx context.Context, userID uint) (*WatchlistSummary, error) {
	entries, err := u.entries.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &WatchlistSummary{TotalWatched: len(entries), Entries: entries}, nil
}
