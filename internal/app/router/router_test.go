package router

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	authhandler "trading_backend/internal/feature/auth/transport/handler"
	markethandler "trading_backend/internal/feature/marketdata/transport/handler"
	positionhandler "trading_backend/internal/feature/positions/transport/handler"
	stockhandler "trading_backend/internal/feature/stocks/transport/handler"
	tradehandler "trading_backend/internal/feature/tradehistory/transport/handler"
	watchlisthandler "trading_backend/internal/feature/watchlist/transport/handler"
	platformhandler "trading_backend/internal/platform/http/handler"
)

func buildRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := Handlers{
		Health:    platformhandler.NewHealthHandler(nil),
		Auth:      authhandler.NewAuthHandler(nil),
		Stocks:    stockhandler.NewStockHandler(nil),
		Market:    markethandler.NewMarketHandler(nil),
		Positions: positionhandler.NewPositionHandler(nil),
		Watchlist: watchlisthandler.NewWatchlistHandler(nil),
		Trades:    tradehandler.NewTradeHandler(nil),
	}
	return NewRouter(h, func(c *gin.Context) { c.Next() })
}

func TestNewRouter_RouteTable(t *testing.T) {
	r := buildRouter()

	mounted := map[string]bool{}
	for _, ri := range r.Routes() {
		mounted[ri.Method+" "+ri.Path] = true
	}

	want := []string{
		"GET /health",
		"POST /auth/signup",
		"POST /auth/login",
		"GET /auth/me",
		"GET /auth/users/me/profile",
		"POST /auth/logout",
		"POST /auth/refresh-token",
		"POST /auth/verify-token",
		"POST /auth/users/me/deactivate",
		"GET /stocks",
		"POST /stocks",
		"GET /stocks/search",
		"GET /stocks/symbol/:symbol",
		"GET /stocks/:id",
		"PUT /stocks/:id",
		"DELETE /stocks/:id",
		"GET /stocks/:id/quote",
		"GET /stocks/:id/profile",
		"GET /stocks/:id/chart",
		"GET /positions",
		"POST /positions",
		"GET /positions/portfolio",
		"GET /positions/portfolio-summary",
		"GET /positions/user/:userID",
		"GET /positions/:id",
		"PUT /positions/:id",
		"DELETE /positions/:id",
		"POST /positions/:id/sell",
		"GET /watchlist",
		"POST /watchlist",
		"GET /watchlist/summary",
		"GET /watchlist/symbol/:symbol",
		"POST /watchlist/symbol/:symbol",
		"DELETE /watchlist/symbol/:symbol",
		"GET /watchlist/:id",
		"PUT /watchlist/:id",
		"DELETE /watchlist/:id",
		"GET /trade-history",
	}
	for _, route := range want {
		assert.True(t, mounted[route], "route %s must be mounted", route)
	}
}

// The profile alias serves the same handler as /auth/me.
func TestNewRouter_ProfileAliasesMe(t *testing.T) {
	r := buildRouter()

	var me, profile string
	for _, ri := range r.Routes() {
		switch ri.Method + " " + ri.Path {
		case "GET /auth/me":
			me = ri.Handler
		case "GET /auth/users/me/profile":
			profile = ri.Handler
		}
	}
	assert.NotEmpty(t, me)
	assert.Equal(t, me, profile)
}
