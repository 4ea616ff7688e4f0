// Package entity defines the market-data shapes returned by the quote
// providers. These are provider-independent: every provider adapter and the
// placeholder synthesizer produce the same structs.
package entity

import "time"

// Quote is a point-in-time price snapshot for one symbol.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Open          float64 `json:"open"`
	High          float64 `json:"high"`
	Low           float64 `json:"low"`
	CurrentPrice  float64 `json:"current_price"`
	PreviousClose float64 `json:"previous_close"`
	Volume        int64   `json:"volume"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"percent_change"`
	LastUpdated   string  `json:"last_updated"`
}

// Profile carries descriptive company data for one symbol.
type Profile struct {
	Symbol       string  `json:"symbol"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Sector       string  `json:"sector"`
	Exchange     string  `json:"exchange"`
	Currency     string  `json:"currency"`
	MarketCap    string  `json:"market_cap"`
	PERatio      float64 `json:"pe_ratio"`
	Week52High   float64 `json:"week_52_high"`
	Week52Low    float64 `json:"week_52_low"`
	DividendRate float64 `json:"dividend"`
}

// ChartPoint is one daily bar in a price series.
type ChartPoint struct {
	Time   time.Time `json:"time"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume int64     `json:"volume"`
}
