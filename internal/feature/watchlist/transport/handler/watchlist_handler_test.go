package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authentity "trading_backend/internal/feature/auth/domain/entity"
	"trading_backend/internal/feature/watchlist/domain/entity"
	"trading_backend/internal/feature/watchlist/usecase"
	"trading_backend/internal/platform/token"
)

// mockWatchlistUsecase is a hand-rolled mock of the WatchlistUsecase
// interface.
type mockWatchlistUsecase struct {
	AddFunc            func(ctx context.Context, userID, stockID uint, notes string) (*entity.Entry, error)
	AddBySymbolFunc    func(ctx context.Context, userID uint, symbol, notes string) (*entity.Entry, error)
	ListFunc           func(ctx context.Context, userID uint) ([]entity.Entry, error)
	GetFunc            func(ctx context.Context, userID, id uint) (*entity.Entry, error)
	GetBySymbolFunc    func(ctx context.Context, userID uint, symbol string) (*entity.Entry, error)
	UpdateFunc         func(ctx context.Context, userID, id uint, fields usecase.EntryUpdate) (*entity.Entry, error)
	RemoveFunc         func(ctx context.Context, userID, id uint) error
	RemoveBySymbolFunc func(ctx context.Context, userID uint, symbol string) error
	SummaryFunc        func(ctx context.Context, userID uint) (*usecase.WatchlistSummary, error)
}

func (m *mockWatchlistUsecase) Add(ctx context.Context, userID, stockID uint, notes string) (*entity.Entry, error) {
	return m.AddFunc(ctx, userID, stockID, notes)
}

func (m *mockWatchlistUsecase) AddBySymbol(ctx context.Context, userID uint, symbol, notes string) (*entity.Entry, error) {
	return m.AddBySymbolFunc(ctx, userID, symbol, notes)
}

func (m *mockWatchlistUsecase) List(ctx context.Context, userID uint) ([]entity.Entry, error) {
	return m.ListFunc(ctx, userID)
}

func (m *mockWatchlistUsecase) Get(ctx context.Context, userID, id uint) (*entity.Entry, error) {
	return m.GetFunc(ctx, userID, id)
}

func (m *mockWatchlistUsecase) GetBySymbol(ctx context.Context, userID uint, symbol string) (*entity.Entry, error) {
	return m.GetBySymbolFunc(ctx, userID, symbol)
}

func (m *mockWatchlistUsecase) Update(ctx context.Context, userID, id uint, fields usecase.EntryUpdate) (*entity.Entry, error) {
	return m.UpdateFunc(ctx, userID, id, fields)
}

func (m *mockWatchlistUsecase) Remove(ctx context.Context, userID, id uint) error {
	return m.RemoveFunc(ctx, userID, id)
}

func (m *mockWatchlistUsecase) RemoveBySymbol(ctx context.Context, userID uint, symbol string) error {
	return m.RemoveBySymbolFunc(ctx, userID, symbol)
}

func (m *mockWatchlistUsecase) Summary(ctx context.Context, userID uint) (*usecase.WatchlistSummary, error) {
	return m.SummaryFunc(ctx, userID)
}

func fakeAuth(userID uint) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(token.ContextUserID, userID)
		c.Set(token.ContextUser, &authentity.User{ID: userID, IsActive: true})
		c.Next()
	}
}

func testEntry() *entity.Entry {
	return &entity.Entry{ID: 5, UserID: 1, StockID: 3, Notes: "tech pick", DateAdded: time.Now()}
}

func setupRouter(mock *mockWatchlistUsecase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewWatchlistHandler(mock)

	g := r.Group("/watchlist", fakeAuth(1))
	g.POST("", h.Add)
	g.GET("", h.List)
	g.GET("/summary", h.Summary)
	g.GET("/symbol/:symbol", h.GetBySymbol)
	g.POST("/symbol/:symbol", h.AddBySymbol)
	g.DELETE("/symbol/:symbol", h.RemoveBySymbol)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Remove)
	return r
}

func TestWatchlistHandler_Add(t *testing.T) {
	tests := []struct {
		name           string
		requestBody    gin.H
		addFunc        func(ctx context.Context, userID, stockID uint, notes string) (*entity.Entry, error)
		expectedStatus int
	}{
		{
			name:        "success",
			requestBody: gin.H{"stock_id": 3, "notes": "tech pick"},
			addFunc: func(ctx context.Context, userID, stockID uint, notes string) (*entity.Entry, error) {
				assert.Equal(t, uint(1), userID)
				assert.Equal(t, "tech pick", notes)
				return testEntry(), nil
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "missing stock_id",
			requestBody:    gin.H{"notes": "no stock"},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:        "already watched",
			requestBody: gin.H{"stock_id": 3},
			addFunc: func(ctx context.Context, userID, stockID uint, notes string) (*entity.Entry, error) {
				return nil, usecase.ErrAlreadyWatched
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:        "unknown stock",
			requestBody: gin.H{"stock_id": 99},
			addFunc: func(ctx context.Context, userID, stockID uint, notes string) (*entity.Entry, error) {
				return nil, usecase.ErrStockNotFound
			},
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := setupRouter(&mockWatchlistUsecase{AddFunc: tt.addFunc})

			body, _ := json.Marshal(tt.requestBody)
			req := httptest.NewRequest(http.MethodPost, "/watchlist", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestWatchlistHandler_AddBySymbol(t *testing.T) {
	t.Run("no body", func(t *testing.T) {
		r := setupRouter(&mockWatchlistUsecase{
			AddBySymbolFunc: func(ctx context.Context, userID uint, symbol, notes string) (*entity.Entry, error) {
				assert.Equal(t, "AAPL", symbol)
				assert.Empty(t, notes)
				return testEntry(), nil
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/watchlist/symbol/AAPL", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("with notes", func(t *testing.T) {
		r := setupRouter(&mockWatchlistUsecase{
			AddBySymbolFunc: func(ctx context.Context, userID uint, symbol, notes string) (*entity.Entry, error) {
				assert.Equal(t, "long term hold", notes)
				return testEntry(), nil
			},
		})

		body, _ := json.Marshal(gin.H{"notes": "long term hold"})
		req := httptest.NewRequest(http.MethodPost, "/watchlist/symbol/AAPL", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
	})

	t.Run("unknown symbol", func(t *testing.T) {
		r := setupRouter(&mockWatchlistUsecase{
			AddBySymbolFunc: func(ctx context.Context, userID uint, symbol, notes string) (*entity.Entry, error) {
				return nil, usecase.ErrStockNotFound
			},
		})

		req := httptest.NewRequest(http.MethodPost, "/watchlist/symbol/NOPE", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestWatchlistHandler_Summary(t *testing.T) {
	r := setupRouter(&mockWatchlistUsecase{
		SummaryFunc: func(ctx context.Context, userID uint) (*usecase.WatchlistSummary, error) {
			return &usecase.WatchlistSummary{
				TotalWatched: 1,
				Entries:      []entity.Entry{*testEntry()},
			}, nil
		},
	})

	req := httptest.NewRequest(http.MethodGet, "/watchlist/summary", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 1.0, resp["total_watched"])
	assert.Len(t, resp["watchlist"], 1)
}

func TestWatchlistHandler_RemoveBySymbol(t *testing.T) {
	r := setupRouter(&mockWatchlistUsecase{
		RemoveBySymbolFunc: func(ctx context.Context, userID uint, symbol string) error {
			assert.Equal(t, "AAPL", symbol)
			return nil
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/watchlist/symbol/AAPL", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
}

func TestWatchlistHandler_Remove(t *testing.T) {
	r := setupRouter(&mockWatchlistUsecase{
		RemoveFunc: func(ctx context.Context, userID, id uint) error {
			return usecase.ErrEntryNotFound
		},
	})

	req := httptest.NewRequest(http.MethodDelete, "/watchlist/99", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
