// Package handler provides the HTTP handlers for the marketdata feature.
package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"trading_backend/internal/feature/marketdata/domain/entity"
)

// MarketUsecase is the market-data proxy consumed by this handler. Every
// method degrades to placeholder data instead of failing, so these
// endpoints always answer 200.
type MarketUsecase interface {
	Quote(ctx context.Context, symbol string) (*entity.Quote, error)
	Profile(ctx context.Context, symbol string) (*entity.Profile, error)
	Chart(ctx context.Context, symbol string, days int) ([]entity.ChartPoint, error)
}

// MarketHandler handles the /stocks/:id/{quote,profile,chart} endpoints.
// The path segment shares its name with the numeric stock routes but is
// read as a ticker symbol here.
type MarketHandler struct {
	market MarketUsecase
}

// NewMarketHandler creates the handler with its usecase injected.
func NewMarketHandler(market MarketUsecase) *MarketHandler {
	return &MarketHandler{market: market}
}

// Quote handles GET /stocks/:id/quote.
func (h *MarketHandler) Quote(c *gin.Context) {
	quote, _ := h.market.Quote(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, quote)
}

// Profile handles GET /stocks/:id/profile.
func (h *MarketHandler) Profile(c *gin.Context) {
	profile, _ := h.market.Profile(c.Request.Context(), c.Param("id"))
	c.JSON(http.StatusOK, profile)
}

// Chart handles GET /stocks/:id/chart?days=.
func (h *MarketHandler) Chart(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "0"))
	points, _ := h.market.Chart(c.Request.Context(), c.Param("id"), days)
	c.JSON(http.StatusOK, points)
}
