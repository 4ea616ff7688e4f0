// Package router wires every feature handler into the Gin engine and
// draws the line between public and bearer-protected routes.
package router

import (
	"github.com/gin-gonic/gin"

	authhandler "trading_backend/internal/feature/auth/transport/handler"
	markethandler "trading_backend/internal/feature/marketdata/transport/handler"
	positionhandler "trading_backend/internal/feature/positions/transport/handler"
	stockhandler "trading_backend/internal/feature/stocks/transport/handler"
	tradehandler "trading_backend/internal/feature/tradehistory/transport/handler"
	watchlisthandler "trading_backend/internal/feature/watchlist/transport/handler"
	platformhandler "trading_backend/internal/platform/http/handler"
)

// Handlers bundles everything NewRouter mounts.
type Handlers struct {
	Health    *platformhandler.HealthHandler
	Auth      *authhandler.AuthHandler
	Stocks    *stockhandler.StockHandler
	Market    *markethandler.MarketHandler
	Positions *positionhandler.PositionHandler
	Watchlist *watchlisthandler.WatchlistHandler
	Trades    *tradehandler.TradeHandler
}

// NewRouter builds the full route table. authMW is the bearer-token
// middleware applied to everything except health, signup and login.
func NewRouter(h Handlers, authMW gin.HandlerFunc) *gin.Engine {
	r := gin.Default()

	r.GET("/health", h.Health.Health)
	r.HEAD("/health", h.Health.Health)
	r.OPTIONS("/health", h.Health.Health)

	r.POST("/auth/signup", h.Auth.Signup)
	r.POST("/auth/login", h.Auth.Login)

	auth := r.Group("/", authMW)
	{
		auth.GET("/auth/me", h.Auth.Me)
		auth.GET("/auth/users/me/profile", h.Auth.Me)
		auth.POST("/auth/logout", h.Auth.Logout)
		auth.POST("/auth/refresh-token", h.Auth.Refresh)
		auth.POST("/auth/verify-token", h.Auth.VerifyToken)
		auth.POST("/auth/users/me/deactivate", h.Auth.DeactivateMe)

		stocks := auth.Group("/stocks")
		{
			stocks.GET("", h.Stocks.List)
			stocks.POST("", h.Stocks.Create)
			stocks.GET("/search", h.Stocks.Search)
			stocks.GET("/symbol/:symbol", h.Stocks.GetBySymbol)
			stocks.GET("/:id", h.Stocks.Get)
			stocks.PUT("/:id", h.Stocks.Update)
			stocks.DELETE("/:id", h.Stocks.Delete)
			// The :id segment doubles as a ticker symbol on the market
			// data routes; Gin requires one param name per position.
			stocks.GET("/:id/quote", h.Market.Quote)
			stocks.GET("/:id/profile", h.Market.Profile)
			stocks.GET("/:id/chart", h.Market.Chart)
		}

		positions := auth.Group("/positions")
		{
			positions.GET("", h.Positions.List)
			positions.POST("", h.Positions.Create)
			positions.GET("/portfolio", h.Positions.Summary)
			positions.GET("/portfolio-summary", h.Positions.Summary)
			positions.GET("/user/:userID", h.Positions.ListForUser)
			positions.GET("/:id", h.Positions.Get)
			positions.PUT("/:id", h.Positions.Update)
			positions.DELETE("/:id", h.Positions.Delete)
			positions.POST("/:id/sell", h.Positions.Sell)
		}

		watchlist := auth.Group("/watchlist")
		{
			watchlist.GET("", h.Watchlist.List)
			watchlist.POST("", h.Watchlist.Add)
			watchlist.GET("/summary", h.Watchlist.Summary)
			watchlist.GET("/symbol/:symbol", h.Watchlist.GetBySymbol)
			watchlist.POST("/symbol/:symbol", h.Watchlist.AddBySymbol)
			watchlist.DELETE("/symbol/:symbol", h.Watchlist.RemoveBySymbol)
			watchlist.GET("/:id", h.Watchlist.Get)
			watchlist.PUT("/:id", h.Watchlist.Update)
			watchlist.DELETE("/:id", h.Watchlist.Remove)
		}

		auth.GET("/trade-history", h.Trades.List)
	}

	return r
}
