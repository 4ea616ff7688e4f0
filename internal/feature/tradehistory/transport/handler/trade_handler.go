// Package handler provides the HTTP handlers for the tradehistory feature.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/api"
	"trading_backend/internal/feature/tradehistory/domain/entity"
	"trading_backend/internal/platform/token"
)

// TradeUsecase is the trade history service consumed by this handler.
type TradeUsecase interface {
	List(ctx context.Context, userID uint, skip, limit int) ([]entity.Trade, error)
	ListForStock(ctx context.Context, userID, stockID uint, skip, limit int) ([]entity.Trade, error)
}

// TradeHandler handles the read-only /trade-history endpoints.
type TradeHandler struct {
	trades TradeUsecase
}

// NewTradeHandler creates the handler with its usecase injected.
func NewTradeHandler(trades TradeUsecase) *TradeHandler {
	return &TradeHandler{trades: trades}
}

// List handles GET /trade-history?skip=&limit=&stock_id=.
func (h *TradeHandler) List(c *gin.Context) {
	skip, _ := strconv.Atoi(c.DefaultQuery("skip", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	userID := token.CurrentUserID(c)

	var (
		trades []entity.Trade
		err    error
	)
	if raw := c.Query("stock_id"); raw != "" {
		stockID, parseErr := strconv.ParseUint(raw, 10, 32)
		if parseErr != nil {
			c.JSON(http.StatusUnprocessableEntity, api.Error("invalid stock id"))
			return
		}
		trades, err = h.trades.ListForStock(c.Request.Context(), userID, uint(stockID), skip, limit)
	} else {
		trades, err = h.trades.List(c.Request.Context(), userID, skip, limit)
	}
	if err != nil {
		slog.Error("trade history list failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.Error("internal server error"))
		return
	}
	c.JSON(http.StatusOK, api.NewTradeResponses(trades))
}
