// Package db opens the PostgreSQL connection and runs schema migrations.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	authentity "trading_backend/internal/feature/auth/domain/entity"
	positionentity "trading_backend/internal/feature/positions/domain/entity"
	stockentity "trading_backend/internal/feature/stocks/domain/entity"
	tradeentity "trading_backend/internal/feature/tradehistory/domain/entity"
	watchentity "trading_backend/internal/feature/watchlist/domain/entity"
)

// Config holds the database connection settings.
type Config struct {
	URL      string // full DSN; takes precedence over the discrete fields
	User     string
	Password string
	Name     string
	Host     string
	Port     string
	SSLMode  string
}

// LoadConfigFromEnv reads the database configuration from environment
// variables.
func LoadConfigFromEnv() Config {
	sslmode := os.Getenv("DB_SSLMODE")
	if sslmode == "" {
		sslmode = "disable"
	}
	return Config{
		URL:      os.Getenv("DATABASE_URL"),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Name:     os.Getenv("DB_NAME"),
		Host:     os.Getenv("DB_HOST"),
		Port:     os.Getenv("DB_PORT"),
		SSLMode:  sslmode,
	}
}

// BuildDSN produces the PostgreSQL DSN. A full URL takes precedence over
// the discrete fields.
func BuildDSN(cfg Config) string {
	if cfg.URL != "" {
		return cfg.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode)
}

// Opener abstracts gorm.Open for testing.
type Opener func(dsn string) (*gorm.DB, error)

// ConnectWithRetry keeps trying to open the database until it succeeds
// or the timeout elapses, so the service survives the database coming up
// after it in container orchestration.
func ConnectWithRetry(dsn string, timeout time.Duration, open Opener) (*gorm.DB, error) {
	deadline := time.Now().Add(timeout)
	for {
		db, err := open(dsn)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("DB connect failed after %v: %w", timeout, err)
		}
		log.Printf("DB connect failed, retrying...: %v", err)
		time.Sleep(3 * time.Second)
	}
}

// OpenDB connects to PostgreSQL using the environment configuration and,
// when RUN_MIGRATIONS=true, migrates the full schema.
func OpenDB() *gorm.DB {
	dsn := BuildDSN(LoadConfigFromEnv())

	db, err := ConnectWithRetry(dsn, 60*time.Second, func(dsn string) (*gorm.DB, error) {
		return gorm.Open(gpostgres.Open(dsn), &gorm.Config{})
	})
	if err != nil {
		log.Fatal(err)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(
			&authentity.User{},
			&stockentity.Stock{},
			&positionentity.Position{},
			&watchentity.Entry{},
			&tradeentity.Trade{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
