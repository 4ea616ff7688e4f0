package main

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	redisv9 "github.com/redis/go-redis/v9"

	"trading_backend/internal/app/router"
	authadapters "trading_backend/internal/feature/auth/adapters"
	authhandler "trading_backend/internal/feature/auth/transport/handler"
	authusecase "trading_backend/internal/feature/auth/usecase"
	"trading_backend/internal/feature/marketdata/adapters/alphavantage"
	"trading_backend/internal/feature/marketdata/adapters/yahoo"
	markethandler "trading_backend/internal/feature/marketdata/transport/handler"
	marketusecase "trading_backend/internal/feature/marketdata/usecase"
	positionadapters "trading_backend/internal/feature/positions/adapters"
	positionhandler "trading_backend/internal/feature/positions/transport/handler"
	positionusecase "trading_backend/internal/feature/positions/usecase"
	stockadapters "trading_backend/internal/feature/stocks/adapters"
	stockhandler "trading_backend/internal/feature/stocks/transport/handler"
	stockusecase "trading_backend/internal/feature/stocks/usecase"
	tradeadapters "trading_backend/internal/feature/tradehistory/adapters"
	tradehandler "trading_backend/internal/feature/tradehistory/transport/handler"
	tradeusecase "trading_backend/internal/feature/tradehistory/usecase"
	watchlistadapters "trading_backend/internal/feature/watchlist/adapters"
	watchlisthandler "trading_backend/internal/feature/watchlist/transport/handler"
	watchlistusecase "trading_backend/internal/feature/watchlist/usecase"
	"trading_backend/internal/platform/cache"
	platformdb "trading_backend/internal/platform/db"
	httpclient "trading_backend/internal/platform/http"
	platformhandler "trading_backend/internal/platform/http/handler"
	platformredis "trading_backend/internal/platform/redis"
	"trading_backend/internal/platform/token"
	"trading_backend/internal/shared/ratelimiter"
)

func main() {
	// .env is optional; real deployments inject the environment directly.
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file loaded:", err)
	}

	db := platformdb.OpenDB()

	var rdb *redisv9.Client
	if tmp, err := platformredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	ttlMinutes := 30
	if raw := os.Getenv("JWT_EXPIRES_MINUTES"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			ttlMinutes = v
		}
	}
	tokenSvc := token.NewService(secret, time.Duration(ttlMinutes)*time.Minute)

	// Repository
	userRepo := authadapters.NewUserPostgres(db)
	stockRepo := stockadapters.NewStockPostgres(db)
	positionRepo := positionadapters.NewPositionPostgres(db)
	watchlistRepo := watchlistadapters.NewWatchlistPostgres(db)
	tradeRepo := tradeadapters.NewTradePostgres(db)

	// Market data provider chain, wrapped in a Redis cache.
	avCfg := alphavantage.LoadConfig()
	avLimiter := ratelimiter.NewRateLimiter(5, time.Minute)
	avClient := alphavantage.NewClient(avCfg, httpclient.NewHTTPClient(avCfg.Timeout), avLimiter)
	yhCfg := yahoo.LoadConfig()
	yhClient := yahoo.NewClient(yhCfg, httpclient.NewHTTPClient(yhCfg.Timeout))
	marketUC := marketusecase.NewMarketUsecase(avClient, yhClient)
	cachedMarket := cache.NewCachingMarketRepository(rdb, 5*time.Minute, marketUC, "market")

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, tokenSvc)
	stockUC := stockusecase.NewStockUsecase(stockRepo)
	positionUC := positionusecase.NewPositionUsecase(positionRepo, stockRepo)
	watchlistUC := watchlistusecase.NewWatchlistUsecase(watchlistRepo, stockRepo)
	tradeUC := tradeusecase.NewTradeUsecase(tradeRepo)

	// Handler
	handlers := router.Handlers{
		Health:    platformhandler.NewHealthHandler(db),
		Auth:      authhandler.NewAuthHandler(authUC),
		Stocks:    stockhandler.NewStockHandler(stockUC),
		Market:    markethandler.NewMarketHandler(cachedMarket),
		Positions: positionhandler.NewPositionHandler(positionUC),
		Watchlist: watchlisthandler.NewWatchlistHandler(watchlistUC),
		Trades:    tradehandler.NewTradeHandler(tradeUC),
	}

	engine := router.NewRouter(handlers, token.AuthRequired(tokenSvc, userRepo))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8000"
	}
	if err := engine.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}
