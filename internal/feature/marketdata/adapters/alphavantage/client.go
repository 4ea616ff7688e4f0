package alphavantage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"trading_backend/internal/feature/marketdata/adapters/alphavantage/dto"
	"trading_backend/internal/feature/marketdata/domain/entity"
	"trading_backend/internal/feature/marketdata/usecase"
	"trading_backend/internal/shared/ratelimiter"
)

// Client fetches quotes, company overviews and daily series from the
// Alpha Vantage API. Calls go through a shared rate limiter because the
// free tier caps requests per minute.
type Client struct {
	cfg     Config
	client  *http.Client
	limiter ratelimiter.RateLimiterInterface
}

var _ usecase.QuoteProvider = (*Client)(nil)

// NewClient creates the client with the given config, HTTP client and
// rate limiter.
func NewClient(cfg Config, client *http.Client, limiter ratelimiter.RateLimiterInterface) *Client {
	return &Client{cfg: cfg, client: client, limiter: limiter}
}

// Quote fetches the GLOBAL_QUOTE snapshot for the symbol.
func (c *Client) Quote(ctx context.Context, symbol string) (*entity.Quote, error) {
	var body dto.GlobalQuoteResponse
	if err := c.get(ctx, "GLOBAL_QUOTE", symbol, nil, &body); err != nil {
		return nil, err
	}
	if body.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage: %s", body.ErrorMessage)
	}
	if body.Note != "" || body.GlobalQuote.Symbol == "" {
		return nil, usecase.ErrProviderUnavailable
	}

	q := body.GlobalQuote
	open, err := strconv.ParseFloat(q.Open, 64)
	if err != nil {
		return nil, fmt.Errorf("parse open %q: %w", q.Open, err)
	}
	high, err := strconv.ParseFloat(q.High, 64)
	if err != nil {
		return nil, fmt.Errorf("parse high %q: %w", q.High, err)
	}
	low, err := strconv.ParseFloat(q.Low, 64)
	if err != nil {
		return nil, fmt.Errorf("parse low %q: %w", q.Low, err)
	}
	price, err := strconv.ParseFloat(q.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("parse price %q: %w", q.Price, err)
	}
	prevClose, err := strconv.ParseFloat(q.PreviousClose, 64)
	if err != nil {
		return nil, fmt.Errorf("parse previous close %q: %w", q.PreviousClose, err)
	}
	change, err := strconv.ParseFloat(q.Change, 64)
	if err != nil {
		return nil, fmt.Errorf("parse change %q: %w", q.Change, err)
	}
	percent, err := strconv.ParseFloat(strings.TrimSuffix(q.ChangePercent, "%"), 64)
	if err != nil {
		return nil, fmt.Errorf("parse change percent %q: %w", q.ChangePercent, err)
	}
	volume, err := strconv.ParseInt(q.Volume, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse volume %q: %w", q.Volume, err)
	}

	return &entity.Quote{
		Symbol:        q.Symbol,
		Open:          open,
		High:          high,
		Low:           low,
		CurrentPrice:  price,
		PreviousClose: prevClose,
		Volume:        volume,
		Change:        change,
		ChangePercent: percent,
		LastUpdated:   time.Now().UTC().Format(time.RFC3339),
	}, nil
}

// Profile fetches the OVERVIEW company record for the symbol.
func (c *Client) Profile(ctx context.Context, symbol string) (*entity.Profile, error) {
	var body dto.OverviewResponse
	if err := c.get(ctx, "OVERVIEW", symbol, nil, &body); err != nil {
		return nil, err
	}
	if body.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage: %s", body.ErrorMessage)
	}
	if body.Note != "" || body.Symbol == "" {
		return nil, usecase.ErrProviderUnavailable
	}

	// Overview numerics are optional; missing ones stay zero.
	peRatio, _ := strconv.ParseFloat(body.PERatio, 64)
	high52, _ := strconv.ParseFloat(body.Week52High, 64)
	low52, _ := strconv.ParseFloat(body.Week52Low, 64)
	dividend, _ := strconv.ParseFloat(body.DividendPerShare, 64)

	return &entity.Profile{
		Symbol:       body.Symbol,
		Name:         body.Name,
		Description:  body.Description,
		Sector:       body.Sector,
		Exchange:     body.Exchange,
		Currency:     body.Currency,
		MarketCap:    body.MarketCap,
		PERatio:      peRatio,
		Week52High:   high52,
		Week52Low:    low52,
		DividendRate: dividend,
	}, nil
}

// Chart fetches the TIME_SERIES_DAILY bars for the symbol, trimmed to the
// most recent days and ordered oldest first.
func (c *Client) Chart(ctx context.Context, symbol string, days int) ([]entity.ChartPoint, error) {
	var body dto.TimeSeriesDailyResponse
	if err := c.get(ctx, "TIME_SERIES_DAILY", symbol, url.Values{"outputsize": {"compact"}}, &body); err != nil {
		return nil, err
	}
	if body.ErrorMessage != "" {
		return nil, fmt.Errorf("alphavantage: %s", body.ErrorMessage)
	}
	if body.Note != "" || len(body.Series) == 0 {
		return nil, usecase.ErrProviderUnavailable
	}

	dates := make([]string, 0, len(body.Series))
	for d := range body.Series {
		dates = append(dates, d)
	}
	sort.Strings(dates)
	if len(dates) > days {
		dates = dates[len(dates)-days:]
	}

	points := make([]entity.ChartPoint, 0, len(dates))
	for _, d := range dates {
		bar := body.Series[d]
		tm, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, fmt.Errorf("parse time %q: %w", d, err)
		}
		open, err := strconv.ParseFloat(bar.Open, 64)
		if err != nil {
			return nil, fmt.Errorf("parse open %q: %w", bar.Open, err)
		}
		high, err := strconv.ParseFloat(bar.High, 64)
		if err != nil {
			return nil, fmt.Errorf("parse high %q: %w", bar.High, err)
		}
		low, err := strconv.ParseFloat(bar.Low, 64)
		if err != nil {
			return nil, fmt.Errorf("parse low %q: %w", bar.Low, err)
		}
		closePrice, err := strconv.ParseFloat(bar.Close, 64)
		if err != nil {
			return nil, fmt.Errorf("parse close %q: %w", bar.Close, err)
		}
		volume, err := strconv.ParseInt(bar.Volume, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse volume %q: %w", bar.Volume, err)
		}
		points = append(points, entity.ChartPoint{
			Time:   tm,
			Open:   open,
			High:   high,
			Low:    low,
			Close:  closePrice,
			Volume: volume,
		})
	}
	return points, nil
}

func (c *Client) get(ctx context.Context, function, symbol string, extra url.Values, out interface{}) error {
	if c.cfg.APIKey == "" {
		return usecase.ErrProviderUnavailable
	}
	c.limiter.WaitIfNeeded()

	q := url.Values{}
	q.Set("function", function)
	q.Set("symbol", symbol)
	q.Set("apikey", c.cfg.APIKey)
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	u := fmt.Sprintf("%s/query?%s", c.cfg.BaseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	res, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("alphavantage http %d", res.StatusCode)
	}
	return json.NewDecoder(res.Body).Decode(out)
}
