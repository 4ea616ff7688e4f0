package usecase

import (
	"context"
	"strings"

	"trading_backend/internal/feature/stocks/domain/entity"
)

// Pagination bounds for listing and search.
const (
	defaultListLimit   = 100
	maxListLimit       = 1000
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// StockUpdate names the fields a PUT may change. Anything not listed here
// cannot reach the store.
type StockUpdate struct {
	Name        *string
	Description *string
	Sector      *string
	Exchange    *string
	Currency    *string
}

// StockRepository abstracts persistence for the stock reference table.
type StockRepository interface {
	// Create persists a stock. Returns ErrSymbolTaken on duplicate symbol.
	Create(ctx context.Context, s *entity.Stock) error

	// List returns stocks ordered by symbol with offset/limit paging.
	List(ctx context.Context, offset, limit int) ([]entity.Stock, error)

	// Search matches the query against symbol or name, case-insensitive.
	Search(ctx context.Context, query string, limit int) ([]entity.Stock, error)

	// FindByID retrieves a stock by id.
	FindByID(ctx context.Context, id uint) (*entity.Stock, error)

	// FindBySymbol retrieves a stock by upper-cased symbol.
	FindBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)

	// Update applies the named fields and returns the updated row.
	Update(ctx context.Context, id uint, fields StockUpdate) (*entity.Stock, error)

	// Delete removes the stock. Dependent positions, watchlist entries and
	// trade history rows go with it (owned-by cascade).
	Delete(ctx context.Context, id uint) error
}

type stockUsecase struct {
	stocks StockRepository
}

// NewStockUsecase creates the stock service.
func NewStockUsecase(stocks StockRepository) *stockUsecase {
	return &stockUsecase{stocks: stocks}
}

// Create registers a stock with its symbol normalized to upper case and
// the currency defaulted to USD.
func (u *stockUsecase) Create(ctx context.Context, s *entity.Stock) (*entity.Stock, error) {
	s.Symbol = strings.ToUpper(strings.TrimSpace(s.Symbol))
	if s.Currency == "" {
		s.Currency = "USD"
	}
	if err := u.stocks.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

// List pages through the reference table.
func (u *stockUsecase) List(ctx context.Context, skip, limit int) ([]entity.Stock, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	return u.stocks.List(ctx, skip, limit)
}

// Search looks up stocks by symbol or name fragment.
func (u *stockUsecase) Search(ctx context.Context, query string, limit int) ([]entity.Stock, error) {
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}
	return u.stocks.Search(ctx, strings.TrimSpace(query), limit)
}

// Get retrieves a stock by id.
func (u *stockUsecase) Get(ctx context.Context, id uint) (*entity.Stock, error) {
	return u.stocks.FindByID(ctx, id)
}

// GetBySymbol retrieves a stock by symbol, case-insensitively.
func (u *stockUsecase) GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error) {
	return u.stocks.FindBySymbol(ctx, strings.ToUpper(strings.TrimSpace(symbol)))
}

// Update applies a partial edit.
func (u *stockUsecase) Update(ctx context.Context, id uint, fields StockUpdate) (*entity.Stock, error) {
	return u.stocks.Update(ctx, id, fields)
}

// Delete removes a stock and everything that references it.
func (u *stockUsecase) Delete(ctx context.Context, id uint) error {
	return u.stocks.Delete(ctx, id)
}
