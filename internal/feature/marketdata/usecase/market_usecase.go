package usecase

import (
	"context"
	"hash/fnv"
	"log/slog"
	"math"
	"math/rand"
	"strings"
	"time"

	"trading_backend/internal/feature/marketdata/domain/entity"
)

// defaultChartDays is the window served when the caller does not ask for
// a specific range.
const defaultChartDays = 30

// QuoteProvider fetches live market data for one symbol. Adapters return
// any error to signal the chain should try the next provider.
type QuoteProvider interface {
	Quote(ctx context.Context, symbol string) (*entity.Quote, error)
	Profile(ctx context.Context, symbol string) (*entity.Profile, error)
	Chart(ctx context.Context, symbol string, days int) ([]entity.ChartPoint, error)
}

type marketUsecase struct {
	primary  QuoteProvider
	fallback QuoteProvider
}

// NewMarketUsecase creates the proxy service. Either provider may be nil;
// a nil provider is simply skipped.
func NewMarketUsecase(primary, fallback QuoteProvider) *marketUsecase {
	return &marketUsecase{primary: primary, fallback: fallback}
}

// Quote returns a price snapshot for the symbol. Provider failures fall
// through to the deterministic placeholder, so this never errors.
func (u *marketUsecase) Quote(ctx context.Context, symbol string) (*entity.Quote, error) {
	symbol = normalize(symbol)
	for _, p := range u.providers() {
		q, err := p.Quote(ctx, symbol)
		if err == nil && q != nil {
			return q, nil
		}
		if err != nil {
			slog.Warn("quote provider failed", "symbol", symbol, "error", err)
		}
	}
	return placeholderQuote(symbol), nil
}

// Profile returns descriptive company data for the symbol.
func (u *marketUsecase) Profile(ctx context.Context, symbol string) (*entity.Profile, error) {
	symbol = normalize(symbol)
	for _, p := range u.providers() {
		pr, err := p.Profile(ctx, symbol)
		if err == nil && pr != nil {
			return pr, nil
		}
		if err != nil {
			slog.Warn("profile provider failed", "symbol", symbol, "error", err)
		}
	}
	return placeholderProfile(symbol), nil
}

// Chart returns a daily price series for the symbol.
func (u *marketUsecase) Chart(ctx context.Context, symbol string, days int) ([]entity.ChartPoint, error) {
	symbol = normalize(symbol)
	if days <= 0 {
		days = defaultChartDays
	}
	for _, p := range u.providers() {
		points, err := p.Chart(ctx, symbol, days)
		if err == nil && len(points) > 0 {
			return points, nil
		}
		if err != nil {
			slog.Warn("chart provider failed", "symbol", symbol, "error", err)
		}
	}
	return placeholderChart(symbol, days), nil
}

func (u *marketUsecase) providers() []QuoteProvider {
	out := make([]QuoteProvider, 0, 2)
	if u.primary != nil {
		out = append(out, u.primary)
	}
	if u.fallback != nil {
		out = append(out, u.fallback)
	}
	return out
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// basePrice derives a stable per-symbol price in [100, 1100) from an
// FNV-1a hash, so placeholder data is consistent across calls and
// processes without any state.
func basePrice(symbol string) float64 {
	h := fnv.New32a()
	h.Write([]byte(symbol))
	return float64(h.Sum32()%1000) + 100
}

func seededRand(symbol string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(symbol))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

func placeholderQuote(symbol string) *entity.Quote {
	base := basePrice(symbol)
	rng := seededRand(symbol)

	prevClose := round2(base * (1 + (rng.Float64()-0.5)*0.02))
	current := round2(base * (1 + (rng.Float64()-0.5)*0.02))
	change := round2(current - prevClose)
	percent := 0.0
	if prevClose != 0 {
		percent = round2(change / prevClose * 100)
	}
	return &entity.Quote{
		Symbol:        symbol,
		Open:          prevClose,
		High:          round2(math.Max(current, prevClose) * 1.01),
		Low:           round2(math.Min(current, prevClose) * 0.99),
		CurrentPrice:  current,
		PreviousClose: prevClose,
		Volume:        int64(rng.Intn(9_000_000) + 1_000_000),
		Change:        change,
		ChangePercent: percent,
		LastUpdated:   time.Now().UTC().Format(time.RFC3339),
	}
}

func placeholderProfile(symbol string) *entity.Profile {
	rng := seededRand(symbol)
	return &entity.Profile{
		Symbol:       symbol,
		Name:         symbol + " Inc.",
		Description:  "No company profile is available for this symbol.",
		Sector:       "Unknown",
		Exchange:     "NASDAQ",
		Currency:     "USD",
		MarketCap:    "N/A",
		PERatio:      round2(10 + rng.Float64()*30),
		Week52High:   round2(basePrice(symbol) * 1.3),
		Week52Low:    round2(basePrice(symbol) * 0.7),
		DividendRate: round2(rng.Float64() * 3),
	}
}

// placeholderChart synthesizes a daily random walk ending today. The walk
// is seeded per symbol, so the same symbol always draws the same curve.
func placeholderChart(symbol string, days int) []entity.ChartPoint {
	rng := seededRand(symbol)
	price := basePrice(symbol)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	points := make([]entity.ChartPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		open := price
		price = price * (1 + (rng.Float64()-0.5)*0.04)
		closePrice := round2(price)
		points = append(points, entity.ChartPoint{
			Time:   today.AddDate(0, 0, -i),
			Open:   round2(open),
			High:   round2(math.Max(open, closePrice) * 1.01),
			Low:    round2(math.Min(open, closePrice) * 0.99),
			Close:  closePrice,
			Volume: int64(rng.Intn(9_000_000) + 1_000_000),
		})
	}
	return points
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
