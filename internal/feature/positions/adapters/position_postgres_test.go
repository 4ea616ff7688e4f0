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
	"trading_backend/internal/feature/positions/domain/entity"
	"trading_backend/internal/feature/positions/usecase"
	stockentity "trading_backend/internal/feature/stocks/domain/entity"
	tradeentity "trading_backend/internal/feature/tradehistory/domain/entity"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")
	require.NoError(t, db.Exec("PRAGMA foreign_keys = ON").Error)

	err = db.AutoMigrate(
		&authentity.User{},
		&stockentity.Stock{},
		&entity.Position{},
		&tradeentity.Trade{},
	)
	require.NoError(t, err, "failed to migrate tables")

	return db
}

// seed creates a user and a stock and returns their ids.
func seed(t *testing.T, db *gorm.DB) (uint, uint) {
	t.Helper()
	user := &authentity.User{Email: "trader@x.com", Username: "trader", HashedPassword: "h", IsActive: true}
	require.NoError(t, db.Create(user).Error)
	stock := &stockentity.Stock{Symbol: "AAPL", Name: "Apple Inc.", Currency: "USD"}
	require.NoError(t, db.Create(stock).Error)
	return user.ID, stock.ID
}

func tradeCount(t *testing.T, db *gorm.DB, tradeType string) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(&tradeentity.Trade{}).Where("trade_type = ?", tradeType).Count(&n).Error)
	return n
}

func TestPositionPostgres_OpenOrAdd(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPositionPostgres(db)
	userID, stockID := seed(t, db)

	t.Run("first buy creates the position", func(t *testing.T) {
		p, err := repo.OpenOrAdd(context.Background(), userID, stockID, 10, 150)
		require.NoError(t, err)
		assert.Equal(t, 10.0, p.Quantity)
		assert.Equal(t, 150.0, p.PurchasePrice)
		assert.Equal(t, "AAPL", p.Stock.Symbol, "stock must be preloaded")
		assert.Equal(t, int64(1), tradeCount(t, db, tradeentity.TradeTypeBuy))
	})

	t.Run("second buy folds at weighted average", func(t *testing.T) {
		p, err := repo.OpenOrAdd(context.Background(), userID, stockID, 5, 180)
		require.NoError(t, err)
		assert.Equal(t, 15.0, p.Quantity)
		assert.InDelta(t, 160.0, p.PurchasePrice, 1e-9)

		var count int64
		require.NoError(t, db.Model(&entity.Position{}).Count(&count).Error)
		assert.Equal(t, int64(1), count, "fold must not create a second row")
		assert.Equal(t, int64(2), tradeCount(t, db, tradeentity.TradeTypeBuy))
	})
}

// singleConn pins the pool to one connection so statements issued from
// inside a callback land on the same in-memory database.
func singleConn(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
}

func TestPositionPostgres_OpenOrAdd_RefoldsWhenRowMoves(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPositionPostgres(db)
	userID, stockID := seed(t, db)

	_, err := repo.OpenOrAdd(context.Background(), userID, stockID, 10, 100)
	require.NoError(t, err)
	singleConn(t, db)

	// Slip a concurrent buy in between the read and the guarded UPDATE:
	// the guard no longer matches, so the fold must re-read and retry.
	raced := false
	err = db.Callback().Update().Before("gorm:update").Register("slip_in_buy", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "positions" {
			return
		}
		raced = true
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).
			Exec("UPDATE positions SET quantity = ?, purchase_price = ? WHERE user_id = ? AND stock_id = ?",
				12.0, 110.0, userID, stockID).Error)
	})
	require.NoError(t, err)

	p, err := openOrFold(db, userID, stockID, 5, 100)
	require.NoError(t, err)
	require.True(t, raced, "the contending update must have fired")

	assert.Equal(t, 17.0, p.Quantity, "fold must include the buy that slipped in")
	assert.InDelta(t, (12*110.0+5*100.0)/17.0, p.PurchasePrice, 1e-9)
}

func TestPositionPostgres_OpenOrAdd_DuplicateCreateFoldsIn(t *testing.T) {
	db := setupTestDB(t)
	userID, stockID := seed(t, db)
	singleConn(t, db)

	// Insert the row just before the create runs: the unique index on
	// (user_id, stock_id) rejects the create and the loop folds instead.
	raced := false
	err := db.Callback().Create().Before("gorm:create").Register("slip_in_create", func(tx *gorm.DB) {
		if raced || tx.Statement.Table != "positions" {
			return
		}
		raced = true
		now := time.Now().UTC()
		require.NoError(t, tx.Session(&gorm.Session{NewDB: true}).
			Exec("INSERT INTO positions (user_id, stock_id, quantity, purchase_price, purchase_date, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
				userID, stockID, 4.0, 90.0, now, now, now).Error)
	})
	require.NoError(t, err)

	p, err := openOrFold(db, userID, stockID, 6, 100)
	require.NoError(t, err)
	require.True(t, raced, "the contending insert must have fired")

	assert.Equal(t, 10.0, p.Quantity)
	assert.InDelta(t, 96.0, p.PurchasePrice, 1e-9, "fold must average against the row that won the create")

	var count int64
	require.NoError(t, db.Model(&entity.Position{}).Count(&count).Error)
	assert.Equal(t, int64(1), count, "losing the create race must not leave a second row")
}

func TestPositionPostgres_Sell(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPositionPostgres(db)
	userID, stockID := seed(t, db)

	p, err := repo.OpenOrAdd(context.Background(), userID, stockID, 10, 100)
	require.NoError(t, err)

	t.Run("partial sell decrements", func(t *testing.T) {
		remaining, closed, err := repo.Sell(context.Background(), userID, p.ID, 4)
		require.NoError(t, err)
		assert.False(t, closed)
		require.NotNil(t, remaining)
		assert.Equal(t, 6.0, remaining.Quantity)
		assert.Equal(t, int64(1), tradeCount(t, db, tradeentity.TradeTypeSell))
	})

	t.Run("oversell fails and leaves the position unchanged", func(t *testing.T) {
		_, _, err := repo.Sell(context.Background(), userID, p.ID, 7)
		assert.ErrorIs(t, err, usecase.ErrInsufficientShares)

		got, err := repo.FindByID(context.Background(), userID, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 6.0, got.Quantity)
		assert.Equal(t, int64(1), tradeCount(t, db, tradeentity.TradeTypeSell), "failed sell must not log a trade")
	})

	t.Run("selling the full quantity closes the position", func(t *testing.T) {
		remaining, closed, err := repo.Sell(context.Background(), userID, p.ID, 6)
		require.NoError(t, err)
		assert.True(t, closed)
		assert.Nil(t, remaining)

		_, err = repo.FindByID(context.Background(), userID, p.ID)
		assert.ErrorIs(t, err, usecase.ErrPositionNotFound)
		assert.Equal(t, int64(2), tradeCount(t, db, tradeentity.TradeTypeSell))
	})

	t.Run("selling from a missing position fails", func(t *testing.T) {
		_, _, err := repo.Sell(context.Background(), userID, 9999, 1)
		assert.ErrorIs(t, err, usecase.ErrPositionNotFound)
	})
}

func TestPositionPostgres_OwnerScoping(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPositionPostgres(db)
	userID, stockID := seed(t, db)

	other := &authentity.User{Email: "other@x.com", Username: "other", HashedPassword: "h", IsActive: true}
	require.NoError(t, db.Create(other).Error)

	p, err := repo.OpenOrAdd(context.Background(), userID, stockID, 10, 100)
	require.NoError(t, err)

	_, err = repo.FindByID(context.Background(), other.ID, p.ID)
	assert.ErrorIs(t, err, usecase.ErrPositionNotFound)

	_, _, err = repo.Sell(context.Background(), other.ID, p.ID, 1)
	assert.ErrorIs(t, err, usecase.ErrPositionNotFound)

	err = repo.Delete(context.Background(), other.ID, p.ID)
	assert.ErrorIs(t, err, usecase.ErrPositionNotFound)
}

func TestPositionPostgres_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPositionPostgres(db)
	userID, stockID := seed(t, db)

	p, err := repo.OpenOrAdd(context.Background(), userID, stockID, 10, 100)
	require.NoError(t, err)

	qty := 20.0
	updated, err := repo.Update(context.Background(), userID, p.ID, usecase.PositionUpdate{Quantity: &qty})
	require.NoError(t, err)
	assert.Equal(t, 20.0, updated.Quantity)
	assert.Equal(t, 100.0, updated.PurchasePrice, "unnamed fields stay untouched")

	_, err = repo.Update(context.Background(), userID, 9999, usecase.PositionUpdate{Quantity: &qty})
	assert.ErrorIs(t, err, usecase.ErrPositionNotFound)
}

func TestPositionPostgres_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPositionPostgres(db)
	userID, stockID := seed(t, db)

	p, err := repo.OpenOrAdd(context.Background(), userID, stockID, 10, 100)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(context.Background(), userID, p.ID))

	_, err = repo.FindByID(context.Background(), userID, p.ID)
	assert.ErrorIs(t, err, usecase.ErrPositionNotFound)

	var sell tradeentity.Trade
	require.NoError(t, db.Where("trade_type = ?", tradeentity.TradeTypeSell).First(&sell).Error)
	assert.Equal(t, 10.0, sell.Quantity, "closing logs a sell of the full remaining quantity")
	assert.Equal(t, 1000.0, sell.TotalAmount)
}

func TestPositionPostgres_Summary(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPositionPostgres(db)
	userID, stockID := seed(t, db)

	t.Run("empty portfolio", func(t *testing.T) {
		summary, err := repo.Summary(context.Background(), userID)
		require.NoError(t, err)
		assert.Zero(t, summary.TotalValue)
		assert.Zero(t, summary.TotalPositions)
		assert.Zero(t, summary.TotalStocks)
		assert.Empty(t, summary.Positions)
	})

	t.Run("aggregates at cost basis", func(t *testing.T) {
		second := &stockentity.Stock{Symbol: "MSFT", Name: "Microsoft", Currency: "USD"}
		require.NoError(t, db.Create(second).Error)

		_, err := repo.OpenOrAdd(context.Background(), userID, stockID, 10, 150)
		require.NoError(t, err)
		_, err = repo.OpenOrAdd(context.Background(), userID, second.ID, 5, 300)
		require.NoError(t, err)

		summary, err := repo.Summary(context.Background(), userID)
		require.NoError(t, err)
		assert.InDelta(t, 3000.0, summary.TotalValue, 1e-9)
		assert.Equal(t, int64(2), summary.TotalPositions)
		assert.Equal(t, int64(2), summary.TotalStocks)
		require.Len(t, summary.Positions, 2)
		assert.NotEmpty(t, summary.Positions[0].Stock.Symbol)
	})
}

func TestPositionPostgres_ListByUser(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPositionPostgres(db)
	userID, stockID := seed(t, db)

	_, err := repo.OpenOrAdd(context.Background(), userID, stockID, 3, 50)
	require.NoError(t, err)

	positions, err := repo.ListByUser(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, positions, 1)
	assert.Equal(t, "AAPL", positions[0].Stock.Symbol)

	purchased := positions[0].PurchaseDate
	assert.WithinDuration(t, time.Now().UTC(), purchased, time.Minute)
}
