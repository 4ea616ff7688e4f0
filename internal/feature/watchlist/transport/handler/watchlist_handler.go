// Package handler provides the HTTP handlers for the watchlist feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/api"
	"trading_backend/internal/feature/watchlist/domain/entity"
	"trading_backend/internal/feature/watchlist/usecase"
	"trading_backend/internal/platform/token"
)

// WatchlistUsecase is the watchlist service consumed by this handler.
type WatchlistUsecase interface {
	Add(ctx context.Context, userID, stockID uint, notes string) (*entity.Entry, error)
	AddBySymbol(ctx context.Context, userID uint, symbol, notes string) (*entity.Entry, error)
	List(ctx context.Context, userID uint) ([]entity.Entry, error)
	Get(ctx context.Context, userID, id uint) (*entity.Entry, error)
	GetBySymbol(ctx context.Context, userID uint, symbol string) (*entity.Entry, error)
	Update(ctx context.Context, userID, id uint, fields usecase.EntryUpdate) (*entity.Entry, error)
	Remove(ctx context.Context, userID, id uint) error
	RemoveBySymbol(ctx context.Context, userID uint, symbol string) error
	Summary(ctx context.Context, userID uint) (*usecase.WatchlistSummary, error)
}

// WatchlistHandler handles the /watchlist endpoints.
type WatchlistHandler struct {
	watchlist WatchlistUsecase
}

// NewWatchlistHandler creates the handler with its usecase injected.
func NewWatchlistHandler(watchlist WatchlistUsecase) *WatchlistHandler {
	return &WatchlistHandler{watchlist: watchlist}
}

// Add handles POST /watchlist.
func (h *WatchlistHandler) Add(c *gin.Context) {
	var req api.WatchlistCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("watchlist add validation failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, api.Error("invalid request body"))
		return
	}
	userID := token.CurrentUserID(c)

	entry, err := h.watchlist.Add(c.Request.Context(), userID, req.StockID, req.Notes)
	if err != nil {
		slog.Warn("watchlist add failed", "error", err, "user_id", userID, "stock_id", req.StockID)
		writeWatchlistError(c, err)
		return
	}

	slog.Info("watchlist entry added", "user_id", userID, "stock_id", req.StockID)
	c.JSON(http.StatusCreated, api.NewWatchlistResponse(entry))
}

// AddBySymbol handles POST /watchlist/symbol/:symbol. The body is
// optional and may carry notes.
func (h *WatchlistHandler) AddBySymbol(c *gin.Context) {
	var req api.WatchlistNotesRequest
	if c.Request.Body != nil && c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			slog.Warn("watchlist add validation failed", "error", err)
			c.JSON(http.StatusUnprocessableEntity, api.Error("invalid request body"))
			return
		}
	}
	userID := token.CurrentUserID(c)
	symbol := c.Param("symbol")

	entry, err := h.watchlist.AddBySymbol(c.Request.Context(), userID, symbol, req.Notes)
	if err != nil {
		slog.Warn("watchlist add failed", "error", err, "user_id", userID, "symbol", symbol)
		writeWatchlistError(c, err)
		return
	}

	slog.Info("watchlist entry added", "user_id", userID, "symbol", symbol)
	c.JSON(http.StatusCreated, api.NewWatchlistResponse(entry))
}

// List handles GET /watchlist.
func (h *WatchlistHandler) List(c *gin.Context) {
	entries, err := h.watchlist.List(c.Request.Context(), token.CurrentUserID(c))
	if err != nil {
		slog.Error("watchlist list failed", "error", err)
		writeWatchlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewWatchlistResponses(entries))
}

// Summary handles GET /watchlist/summary.
func (h *WatchlistHandler) Summary(c *gin.Context) {
	summary, err := h.watchlist.Summary(c.Request.Context(), token.CurrentUserID(c))
	if err != nil {
		slog.Error("watchlist summary failed", "error", err)
		writeWatchlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.WatchlistSummaryResponse{
		TotalWatched: summary.TotalWatched,
		Watchlist:    api.NewWatchlistResponses(summary.Entries),
	})
}

// Get handles GET /watchlist/:id.
func (h *WatchlistHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	entry, err := h.watchlist.Get(c.Request.Context(), token.CurrentUserID(c), id)
	if err != nil {
		writeWatchlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewWatchlistResponse(entry))
}

// GetBySymbol handles GET /watchlist/symbol/:symbol.
func (h *WatchlistHandler) GetBySymbol(c *gin.Context) {
	entry, err := h.watchlist.GetBySymbol(c.Request.Context(), token.CurrentUserID(c), c.Param("symbol"))
	if err != nil {
		writeWatchlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewWatchlistResponse(entry))
}

// Update handles PUT /watchlist/:id.
func (h *WatchlistHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req api.WatchlistUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("watchlist update validation failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, api.Error("invalid request body"))
		return
	}

	entry, err := h.watchlist.Update(c.Request.Context(), token.CurrentUserID(c), id, usecase.EntryUpdate{
		Notes: req.Notes,
	})
	if err != nil {
		writeWatchlistError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewWatchlistResponse(entry))
}

// Remove handles DELETE /watchlist/:id.
func (h *WatchlistHandler) Remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	userID := token.CurrentUserID(c)
	if err := h.watchlist.Remove(c.Request.Context(), userID, id); err != nil {
		writeWatchlistError(c, err)
		return
	}

	slog.Info("watchlist entry removed", "user_id", userID, "entry_id", id)
	c.JSON(http.StatusOK, api.MessageResponse{
		Message: "stock removed from watchlist",
		Success: true,
	})
}

// RemoveBySymbol handles DELETE /watchlist/symbol/:symbol.
func (h *WatchlistHandler) RemoveBySymbol(c *gin.Context) {
	userID := token.CurrentUserID(c)
	symbol := c.Param("symbol")
	if err := h.watchlist.RemoveBySymbol(c.Request.Context(), userID, symbol); err != nil {
		writeWatchlistError(c, err)
		return
	}

	slog.Info("watchlist entry removed", "user_id", userID, "symbol", symbol)
	c.JSON(http.StatusOK, api.MessageResponse{
		Message: "stock removed from watchlist",
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

// writeWatchlistError translates watchlist domain errors into the HTTP
// envelope.
func writeWatchlistError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrEntryNotFound),
		errors.Is(err, usecase.ErrStockNotFound):
		c.JSON(http.StatusNotFound, api.Error(err.Error()))
	case errors.Is(err, usecase.ErrAlreadyWatched):
		c.JSON(http.StatusBadRequest, api.Error(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
	}
}
