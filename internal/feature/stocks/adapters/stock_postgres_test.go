package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "trading_backend/internal/feature/auth/domain/entity"
	positionentity "trading_backend/internal/feature/positions/domain/entity"
	"trading_backend/internal/feature/stocks/domain/entity"
	"trading_backend/internal/feature/stocks/usecase"
	tradeentity "trading_backend/internal/feature/tradehistory/domain/entity"
	watchentity "trading_backend/internal/feature/watchlist/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database with the full schema
// and foreign keys enabled, so cascade behavior can be exercised.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	err = db.AutoMigrate(
		&authentity.User{},
		&entity.Stock{},
		&positionentity.Position{},
		&watchentity.Entry{},
		&tradeentity.Trade{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

func stock(symbol, name string) *entity.Stock {
	return &entity.Stock{Symbol: symbol, Name: name, Currency: "USD"}
}

func TestStockPostgres_Create(t *testing.T) {
	repo := NewStockPostgres(setupTestDB(t))

	s := stock("AAPL", "Apple Inc.")
	require.NoError(t, repo.Create(context.Background(), s))
	assert.NotZero(t, s.ID)

	err := repo.Create(context.Background(), stock("AAPL", "Apple clone"))
	assert.ErrorIs(t, err, usecase.ErrSymbolTaken)
}

func TestStockPostgres_ListAndSearch(t *testing.T) {
	repo := NewStockPostgres(setupTestDB(t))
	for _, s := range []*entity.Stock{
		stock("AAPL", "Apple Inc."),
		stock("MSFT", "Microsoft Corporation"),
		stock("GOOG", "Alphabet Inc."),
	} {
		require.NoError(t, repo.Create(context.Background(), s))
	}

	t.Run("list is ordered and paged", func(t *testing.T) {
		page, err := repo.List(context.Background(), 0, 2)
		require.NoError(t, err)
		require.Len(t, page, 2)
		assert.Equal(t, "AAPL", page[0].Symbol)
		assert.Equal(t, "GOOG", page[1].Symbol)

		rest, err := repo.List(context.Background(), 2, 2)
		require.NoError(t, err)
		require.Len(t, rest, 1)
		assert.Equal(t, "MSFT", rest[0].Symbol)
	})

	t.Run("search matches symbol case-insensitively", func(t *testing.T) {
		found, err := repo.Search(context.Background(), "aap", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "AAPL", found[0].Symbol)
	})

	t.Run("search matches name fragment", func(t *testing.T) {
		found, err := repo.Search(context.Background(), "corporation", 10)
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "MSFT", found[0].Symbol)
	})

	t.Run("search with no hits returns empty slice", func(t *testing.T) {
		found, err := repo.Search(context.Background(), "zzz", 10)
		require.NoError(t, err)
		assert.Empty(t, found)
	})
}

func TestStockPostgres_FindBySymbol(t *testing.T) {
	repo := NewStockPostgres(setupTestDB(t))
	require.NoError(t, repo.Create(context.Background(), stock("TSLA", "Tesla Inc.")))

	found, err := repo.FindBySymbol(context.Background(), "TSLA")
	require.NoError(t, err)
	assert.Equal(t, "Tesla Inc.", found.Name)

	_, err = repo.FindBySymbol(context.Background(), "NOPE")
	assert.ErrorIs(t, err, usecase.ErrStockNotFound)
}

func TestStockPostgres_Update(t *testing.T) {
	repo := NewStockPostgres(setupTestDB(t))
	s := stock("NVDA", "NVIDIA")
	require.NoError(t, repo.Create(context.Background(), s))

	name := "NVIDIA Corporation"
	sector := "Semiconductors"
	updated, err := repo.Update(context.Background(), s.ID, usecase.StockUpdate{
		Name:   &name,
		Sector: &sector,
	})
	require.NoError(t, err)
	assert.Equal(t, "NVIDIA Corporation", updated.Name)
	assert.Equal(t, "Semiconductors", updated.Sector)
	assert.Equal(t, "NVDA", updated.Symbol, "unnamed fields stay untouched")

	_, err = repo.Update(context.Background(), 9999, usecase.StockUpdate{Name: &name})
	assert.ErrorIs(t, err, usecase.ErrStockNotFound)
}

func TestStockPostgres_DeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	repo := NewStockPostgres(db)

	user := &authentity.User{Email: "a@x.com", Username: "alice", HashedPassword: "h", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	s := stock("AMZN", "Amazon")
	require.NoError(t, repo.Create(context.Background(), s))

	require.NoError(t, db.Create(&positionentity.Position{
		UserID: user.ID, StockID: s.ID, Quantity: 10, PurchasePrice: 100, PurchaseDate: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&watchentity.Entry{
		UserID: user.ID, StockID: s.ID, DateAdded: time.Now(),
	}).Error)
	require.NoError(t, db.Create(&tradeentity.Trade{
		UserID: user.ID, StockID: s.ID, TradeType: tradeentity.TradeTypeBuy,
		Quantity: 10, PricePerShare: 100, TotalAmount: 1000, TradeDate: time.Now(),
	}).Error)

	require.NoError(t, repo.Delete(context.Background(), s.ID))

	var positions, watchlist, trades int64
	require.NoError(t, db.Model(&positionentity.Position{}).Count(&positions).Error)
	require.NoError(t, db.Model(&watchentity.Entry{}).Count(&watchlist).Error)
	require.NoError(t, db.Model(&tradeentity.Trade{}).Count(&trades).Error)
	assert.Zero(t, positions, "positions must cascade with the stock")
	assert.Zero(t, watchlist, "watchlist entries must cascade with the stock")
	assert.Zero(t, trades, "trade history must cascade with the stock")

	assert.ErrorIs(t, repo.Delete(context.Background(), s.ID), usecase.ErrStockNotFound)
}
