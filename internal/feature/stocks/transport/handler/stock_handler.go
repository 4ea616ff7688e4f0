// Package handler provides the HTTP handlers for the stocks feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/api"
	"trading_backend/internal/feature/stocks/domain/entity"
	"trading_backend/internal/feature/stocks/usecase"
)

// StockUsecase is the stock reference service consumed by this handler.
type StockUsecase interface {
	Create(ctx context.Context, s *entity.Stock) (*entity.Stock, error)
	List(ctx context.Context, skip, limit int) ([]entity.Stock, error)
	Search(ctx context.Context, query string, limit int) ([]entity.Stock, error)
	Get(ctx context.Context, id uint) (*entity.Stock, error)
	GetBySymbol(ctx context.Context, symbol string) (*entity.Stock, error)
	Update(ctx context.Context, id uint, fields usecase.StockUpdate) (*entity.Stock, error)
	Delete(ctx context.Context, id uint) error
}

// StockHandler handles the /stocks CRUD endpoints.
type StockHandler struct {
	stocks StockUsecase
}

// NewStockHandler creates the handler with its usecase injected.
func NewStockHandler(stocks StockUsecase) *StockHandler {
	return &StockHandler{stocks: stocks}
}

// List handles GET /stocks?skip=&limit=.
func (h *StockHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	stocks, err := h.stocks.List(c.Request.Context(), skip, limit)
	if err != nil {
		slog.Error("stock list failed", "error", err)
		writeStockError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewStockResponses(stocks))
}

// Search handles GET /stocks/search?q=&limit=. The dashboard frontend
// sends the query as "query", so both names are accepted.
func (h *StockHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		q = c.Query("query")
	}
	if q == "" {
		c.JSON(http.StatusUnprocessableEntity, api.Error("search query is required"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	stocks, err := h.stocks.Search(c.Request.Context(), q, limit)
	if err != nil {
		slog.Error("stock search failed", "error", err, "query", q)
		writeStockError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewStockResponses(stocks))
}

// Get handles GET /stocks/:id.
func (h *StockHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	stock, err := h.stocks.Get(c.Request.Context(), id)
	if err != nil {
		writeStockError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewStockResponse(stock))
}

// GetBySymbol handles GET /stocks/symbol/:symbol.
func (h *StockHandler) GetBySymbol(c *gin.Context) {
	stock, err := h.stocks.GetBySymbol(c.Request.Context(), c.Param("symbol"))
	if err != nil {
		writeStockError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewStockResponse(stock))
}

// Create handles POST /stocks.
func (h *StockHandler) Create(c *gin.Context) {
	var req api.StockCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("stock create validation failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, api.Error("invalid request body"))
		return
	}

	stock, err := h.stocks.Create(c.Request.Context(), &entity.Stock{
		Symbol:      req.Symbol,
		Name:        req.Name,
		Description: req.Description,
		Sector:      req.Sector,
		Exchange:    req.Exchange,
		Currency:    req.Currency,
	})
	if err != nil {
		slog.Warn("stock create failed", "error", err, "symbol", req.Symbol)
		writeStockError(c, err)
		return
	}

	slog.Info("stock created", "symbol", stock.Symbol, "stock_id", stock.ID)
	c.JSON(http.StatusCreated, api.NewStockResponse(stock))
}

// Update handles PUT /stocks/:id.
func (h *StockHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req api.StockUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("stock update validation failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, api.Error("invalid request body"))
		return
	}

	stock, err := h.stocks.Update(c.Request.Context(), id, usecase.StockUpdate{
		Name:        req.Name,
		Description: req.Description,
		Sector:      req.Sector,
		Exchange:    req.Exchange,
		Currency:    req.Currency,
	})
	if err != nil {
		writeStockError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewStockResponse(stock))
}

// Delete handles DELETE /stocks/:id. Dependent positions, watchlist
// entries and trade history rows cascade away with the stock.
func (h *StockHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.stocks.Delete(c.Request.Context(), id); err != nil {
		writeStockError(c, err)
		return
	}

	slog.Info("stock deleted", "stock_id", id)
	c.JSON(http.StatusOK, api.MessageResponse{
		Message: "stock deleted successfully",
		Success: true,
	})
}

// parseID reads the numeric :id path param, writing a 422 on garbage.
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, api.Error("invalid id"))
		return 0, false
	}
	return uint(id), true
}

// writeStockError translates stock domain errors into the HTTP envelope.
func writeStockError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrStockNotFound):
		c.JSON(http.StatusNotFound, api.Error(err.Error()))
	case errors.Is(err, usecase.ErrSymbolTaken):
		c.JSON(http.StatusBadRequest, api.Error(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
	}
}
