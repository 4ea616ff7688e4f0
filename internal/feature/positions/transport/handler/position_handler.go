// Package handler provides the HTTP handlers for the positions feature.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/api"
	"trading_backend/internal/feature/positions/domain/entity"
	"trading_backend/internal/feature/positions/usecase"
	"trading_backend/internal/platform/token"
)

// PositionUsecase is the portfolio service consumed by this handler.
type PositionUsecase interface {
	Open(ctx context.Context, userID, stockID uint, quantity, price float64) (*entity.Position, error)
	List(ctx context.Context, userID uint) ([]entity.Position, error)
	Get(ctx context.Context, userID, id uint) (*entity.Position, error)
	Update(ctx context.Context, userID, id uint, fields usecase.PositionUpdate) (*entity.Position, error)
	Sell(ctx context.Context, userID, id uint, quantity float64) (*entity.Position, bool, error)
	Delete(ctx context.Context, userID, id uint) error
	Summary(ctx context.Context, userID uint) (*usecase.PortfolioSummary, error)
}

// PositionHandler handles the /positions endpoints. Every route runs
// behind the auth middleware, so the owner is always the token user.
type PositionHandler struct {
	positions PositionUsecase
}

// NewPositionHandler creates the handler with its usecase injected.
func NewPositionHandler(positions PositionUsecase) *PositionHandler {
	return &PositionHandler{positions: positions}
}

// Create handles POST /positions. Buying into an already-held stock folds
// the shares into the existing position at weighted-average cost.
func (h *PositionHandler) Create(c *gin.Context) {
	var req api.PositionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("position create validation failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, api.Error("invalid request body"))
		return
	}
	userID := token.CurrentUserID(c)

	position, err := h.positions.Open(c.Request.Context(), userID, req.StockID, req.Quantity, req.PurchasePrice)
	if err != nil {
		slog.Warn("position open failed", "error", err, "user_id", userID, "stock_id", req.StockID)
		writePositionError(c, err)
		return
	}

	slog.Info("position opened", "user_id", userID, "stock_id", req.StockID, "quantity", req.Quantity)
	c.JSON(http.StatusCreated, api.NewPositionResponse(position))
}

// List handles GET /positions.
func (h *PositionHandler) List(c *gin.Context) {
	positions, err := h.positions.List(c.Request.Context(), token.CurrentUserID(c))
	if err != nil {
		slog.Error("position list failed", "error", err)
		writePositionError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewPositionResponses(positions))
}

// ListForUser handles GET /positions/user/:userID. The dashboard only
// ever asks for the authenticated user, so any other id is rejected.
func (h *PositionHandler) ListForUser(c *gin.Context) {
	requested, err := strconv.ParseUint(c.Param("userID"), 10, 32)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, api.Error("invalid user id"))
		return
	}
	userID := token.CurrentUserID(c)
	if uint(requested) != userID {
		c.JSON(http.StatusForbidden, api.Error("cannot view another user's positions"))
		return
	}
	h.List(c)
}

// Get handles GET /positions/:id.
func (h *PositionHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	position, err := h.positions.Get(c.Request.Context(), token.CurrentUserID(c), id)
	if err != nil {
		writePositionError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewPositionResponse(position))
}

// Update handles PUT /positions/:id.
func (h *PositionHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	var req api.PositionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("position update validation failed", "error", err)
		c.JSON(http.StatusUnprocessableEntity, api.Error("invalid request body"))
		return
	}

	position, err := h.positions.Update(c.Request.Context(), token.CurrentUserID(c), id, usecase.PositionUpdate{
		Quantity:      req.Quantity,
		PurchasePrice: req.PurchasePrice,
	})
	if err != nil {
		writePositionError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.NewPositionResponse(position))
}

// Sell handles POST /positions/:id/sell?quantity=. Selling the full held
// quantity closes the position and returns a message instead of a row.
func (h *PositionHandler) Sell(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	quantity, err := strconv.ParseFloat(c.Query("quantity"), 64)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, api.Error("quantity is required"))
		return
	}
	userID := token.CurrentUserID(c)

	position, closed, err := h.positions.Sell(c.Request.Context(), userID, id, quantity)
	if err != nil {
		slog.Warn("position sell failed", "error", err, "user_id", userID, "position_id", id)
		writePositionError(c, err)
		return
	}

	slog.Info("position sold", "user_id", userID, "position_id", id, "quantity", quantity, "closed", closed)
	if closed {
		c.JSON(http.StatusOK, api.MessageResponse{
			Message: "position fully sold and closed",
			Success: true,
		})
		return
	}
	c.JSON(http.StatusOK, api.NewPositionResponse(position))
}

// Delete handles DELETE /positions/:id.
func (h *PositionHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	userID := token.CurrentUserID(c)
	if err := h.positions.Delete(c.Request.Context(), userID, id); err != nil {
		writePositionError(c, err)
		return
	}

	slog.Info("position closed", "user_id", userID, "position_id", id)
	c.JSON(http.StatusOK, api.MessageResponse{
		Message: "position deleted successfully",
		Success: true,
	})
}

// Summary handles GET /positions/portfolio-summary and its
// /positions/portfolio alias.
func (h *PositionHandler) Summary(c *gin.Context) {
	summary, err := h.positions.Summary(c.Request.Context(), token.CurrentUserID(c))
	if err != nil {
		slog.Error("portfolio summary failed", "error", err)
		writePositionError(c, err)
		return
	}
	c.JSON(http.StatusOK, api.PortfolioSummaryResponse{
		TotalValue:     summary.TotalValue,
		TotalPositions: summary.TotalPositions,
		TotalStocks:    summary.TotalStocks,
		Positions:      api.NewPositionResponses(summary.Positions),
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

// writePositionError translates position domain errors into the HTTP
// envelope.
func writePositionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, usecase.ErrPositionNotFound),
		errors.Is(err, usecase.ErrStockNotFound):
		c.JSON(http.StatusNotFound, api.Error(err.Error()))
	case errors.Is(err, usecase.ErrInvalidQuantity),
		errors.Is(err, usecase.ErrInvalidPrice),
		errors.Is(err, usecase.ErrInsufficientShares):
		c.JSON(http.StatusBadRequest, api.Error(err.Error()))
	default:
		c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
	}
}
