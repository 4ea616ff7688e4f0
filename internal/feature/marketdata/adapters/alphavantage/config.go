// Package alphavantage provides the primary market-data client, speaking
// the Alpha Vantage API.
package alphavantage

import (
	"os"
	"time"
)

// Config holds configuration for the Alpha Vantage API client.
type Config struct {
	APIKey  string        // API key for authentication
	BaseURL string        // Base URL for the API (e.g., "https://www.alphavantage.co")
	Timeout time.Duration // HTTP request timeout
}

// LoadConfig loads Alpha Vantage configuration from environment variables.
// An empty API key disables the client.
func LoadConfig() Config {
	base := os.Getenv("ALPHA_VANTAGE_BASE_URL")
	if base == "" {
		base = "https://www.alphavantage.co"
	}
	return Config{
		APIKey:  os.Getenv("ALPHA_VANTAGE_API_KEY"),
		BaseURL: base,
		Timeout: 10 * time.Second,
	}
}
