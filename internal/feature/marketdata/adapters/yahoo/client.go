// Package yahoo provides the fallback market-data client, speaking the
// unauthenticated Yahoo Finance chart API.
package yahoo

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"time"

	"trading_backend/internal/feature/marketdata/domain/entity"
	"trading_backend/internal/feature/marketdata/usecase"
)

// Config holds configuration for the Yahoo Finance chart client.
type Config struct {
	BaseURL string
	Timeout time.Duration
}

// LoadConfig loads Yahoo configuration from environment variables.
func LoadConfig() Config {
	base := os.Getenv("YAHOO_FINANCE_BASE_URL")
	if base == "" {
		base = "https://query1.finance.yahoo.com"
	}
	return Config{BaseURL: base, Timeout: 10 * time.Second}
}

// chartResponse is the subset of the Yahoo chart body this client reads.
type chartResponse struct {
	Chart struct {
		Result []struct {
			Meta struct {
				Symbol             string  `json:"symbol"`
				RegularMarketPrice float64 `json:"regularMarketPrice"`
				PreviousClose      float64 `json:"chartPreviousClose"`
				Currency           string  `json:"currency"`
				ExchangeName       string  `json:"exchangeName"`
			} `json:"meta"`
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Open   []float64 `json:"open"`
					High   []float64 `json:"high"`
					Low    []float64 `json:"low"`
					Close  []float64 `json:"close"`
					Volume []int64   `json:"volume"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// Client serves quotes and charts from the Yahoo chart endpoint. It has
// no profile data; Profile always defers to the next tier.
type Client struct {
	cfg    Config
	client *http.Client
}

var _ usecase.QuoteProvider = (*Client)(nil)

// NewClient creates the client with the given config and HTTP client.
func NewClient(cfg Config, client *http.Client) *Client {
	return &Client{cfg: cfg, client: client}
}

// Quote derives a snapshot from a one-day chart request.
func (c *Client) Quote(ctx context.Context, symbol string) (*entity.Quote, error) {
	body, err := c.fetchChart(ctx, symbol, "1d")
	if err != nil {
		return nil, err
	}

	result := body.Chart.Result[0]
	meta := result.Meta
	change := meta.RegularMarketPrice - meta.PreviousClose
	percent := 0.0
	if meta.PreviousClose != 0 {
		percent = change / meta.PreviousClose * 100
	}

	q := &entity.Quote{
		Symbol:        meta.Symbol,
		CurrentPrice:  meta.RegularMarketPrice,
		PreviousClose: meta.PreviousClose,
		Change:        change,
		ChangePercent: percent,
		LastUpdated:   time.Now().UTC().Format(time.RFC3339),
	}
	if len(result.Indicators.Quote) > 0 {
		bars := result.Indicators.Quote[0]
		if len(bars.Open) > 0 {
			q.Open = bars.Open[0]
		}
		for _, h := range bars.High {
			if h > q.High {
				q.High = h
			}
		}
		for _, l := range bars.Low {
			if q.Low == 0 || (l > 0 && l < q.Low) {
				q.Low = l
			}
		}
		for _, v := range bars.Volume {
			q.Volume += v
		}
	}
	return q, nil
}

// Profile is not served by the chart API.
func (c *Client) Profile(ctx context.Context, symbol string) (*entity.Profile, error) {
	return nil, usecase.ErrProviderUnavailable
}

// Chart fetches a daily series covering the requested number of days.
func (c *Client) Chart(ctx context.Context, symbol string, days int) ([]entity.ChartPoint, error) {
	body, err := c.fetchChart(ctx, symbol, fmt.Sprintf("%dd", days))
	if err != nil {
		return nil, err
	}

	result := body.Chart.Result[0]
	if len(result.Indicators.Quote) == 0 {
		return nil, usecase.ErrProviderUnavailable
	}
	bars := result.Indicators.Quote[0]

	points := make([]entity.ChartPoint, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		if i >= len(bars.Close) {
			break
		}
		points = append(points, entity.ChartPoint{
			Time:   time.Unix(ts, 0).UTC(),
			Open:   at(bars.Open, i),
			High:   at(bars.High, i),
			Low:    at(bars.Low, i),
			Close:  bars.Close[i],
			Volume: atInt(bars.Volume, i),
		})
	}
	return points, nil
}

func (c *Client) fetchChart(ctx context.Context, symbol, rangeParam string) (*chartResponse, error) {
	q := url.Values{}
	q.Set("range", rangeParam)
	q.Set("interval", "1d")
	u := fmt.Sprintf("%s/v8/finance/chart/%s?%s", c.cfg.BaseURL, url.PathEscape(symbol), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	// Yahoo rejects requests without a browser-like user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	res, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return nil, fmt.Errorf("yahoo http %d", res.StatusCode)
	}

	var body chartResponse
	if err := json.NewDecoder(res.Body).Decode(&body); err != nil {
		return nil, err
	}
	if body.Chart.Error != nil {
		return nil, fmt.Errorf("yahoo: %s", body.Chart.Error.Description)
	}
	if len(body.Chart.Result) == 0 {
		return nil, usecase.ErrProviderUnavailable
	}
	return &body, nil
}

func at(s []float64, i int) float64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}

func atInt(s []int64, i int) int64 {
	if i < len(s) {
		return s[i]
	}
	return 0
}
