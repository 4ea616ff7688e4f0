package api

import (
	"time"

	authentity "trading_backend/internal/feature/auth/domain/entity"
	positionentity "trading_backend/internal/feature/positions/domain/entity"
	stockentity "trading_backend/internal/feature/stocks/domain/entity"
	tradeentity "trading_backend/internal/feature/tradehistory/domain/entity"
	watchentity "trading_backend/internal/feature/watchlist/domain/entity"
)

// MessageResponse is the envelope for operations that return no resource.
type MessageResponse struct {
	Message string         `json:"message"`
	Success bool           `json:"success"`
	Data    map[string]any `json:"data,omitempty"`
}

// ErrorResponse is the uniform failure envelope. Every domain error is
// translated into this shape at the handler boundary.
type ErrorResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

// Error builds the failure envelope.
func Error(message string) ErrorResponse {
	return ErrorResponse{Message: message, Success: false}
}

// UserResponse is the public view of a user. The password hash never
// leaves the service.
type UserResponse struct {
	ID         uint       `json:"id"`
	Email      string     `json:"email"`
	Username   string     `json:"username"`
	FullName   string     `json:"full_name,omitempty"`
	IsActive   bool       `json:"is_active"`
	IsVerified bool       `json:"is_verified"`
	CreatedAt  time.Time  `json:"created_at"`
	LastLogin  *time.Time `json:"last_login,omitempty"`
}

// NewUserResponse converts a user entity into its public view.
func NewUserResponse(u *authentity.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Email:      u.Email,
		Username:   u.Username,
		FullName:   u.FullName,
		IsActive:   u.IsActive,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		LastLogin:  u.LastLogin,
	}
}

// TokenResponse is the body returned by login and refresh.
type TokenResponse struct {
	AccessToken string       `json:"access_token"`
	TokenType   string       `json:"token_type"`
	ExpiresIn   int          `json:"expires_in"`
	User        UserResponse `json:"user"`
}

// StockResponse is the public view of a stock row.
type StockResponse struct {
	ID          uint      `json:"id"`
	Symbol      string    `json:"symbol"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Sector      string    `json:"sector,omitempty"`
	Exchange    string    `json:"exchange,omitempty"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewStockResponse converts a stock entity into its public view.
func NewStockResponse(s *stockentity.Stock) StockResponse {
	return StockResponse{
		ID:          s.ID,
		Symbol:      s.Symbol,
		Name:        s.Name,
		Description: s.Description,
		Sector:      s.Sector,
		Exchange:    s.Exchange,
		Currency:    s.Currency,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// NewStockResponses converts a slice of stock entities.
func NewStockResponses(stocks []stockentity.Stock) []StockResponse {
	out := make([]StockResponse, 0, len(stocks))
	for i := range stocks {
		out = append(out, NewStockResponse(&stocks[i]))
	}
	return out
}

// PositionResponse is the public view of a position, with the referenced
// stock embedded when it was preloaded.
type PositionResponse struct {
	ID            uint           `json:"id"`
	StockID       uint           `json:"stock_id"`
	Quantity      float64        `json:"quantity"`
	PurchasePrice float64        `json:"purchase_price"`
	TotalValue    float64        `json:"total_value"`
	PurchaseDate  time.Time      `json:"purchase_date"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Stock         *StockResponse `json:"stock,omitempty"`
}

// NewPositionResponse converts a position entity into its public view.
func NewPositionResponse(p *positionentity.Position) PositionResponse {
	resp := PositionResponse{
		ID:            p.ID,
		StockID:       p.StockID,
		Quantity:      p.Quantity,
		PurchasePrice: p.PurchasePrice,
		TotalValue:    p.TotalValue(),
		PurchaseDate:  p.PurchaseDate,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
	if p.Stock.ID != 0 {
		stock := NewStockResponse(&p.Stock)
		resp.Stock = &stock
	}
	return resp
}

// NewPositionResponses converts a slice of position entities.
func NewPositionResponses(positions []positionentity.Position) []PositionResponse {
	out := make([]PositionResponse, 0, len(positions))
	for i := range positions {
		out = append(out, NewPositionResponse(&positions[i]))
	}
	return out
}

// PortfolioSummaryResponse aggregates a user's positions at cost basis.
type PortfolioSummaryResponse struct {
	TotalValue     float64            `json:"total_value"`
	TotalPositions int64              `json:"total_positions"`
	TotalStocks    int64              `json:"total_stocks"`
	Positions      []PositionResponse `json:"positions"`
}

// WatchlistResponse is the public view of a watchlist entry.
type WatchlistResponse struct {
	ID        uint           `json:"id"`
	StockID   uint           `json:"stock_id"`
	Notes     string         `json:"notes,omitempty"`
	DateAdded time.Time      `json:"date_added"`
	Stock     *StockResponse `json:"stock,omitempty"`
}

// NewWatchlistResponse converts a watchlist entry into its public view.
func NewWatchlistResponse(e *watchentity.Entry) WatchlistResponse {
	resp := WatchlistResponse{
		ID:        e.ID,
		StockID:   e.StockID,
		Notes:     e.Notes,
		DateAdded: e.DateAdded,
	}
	if e.Stock.ID != 0 {
		stock := NewStockResponse(&e.Stock)
		resp.Stock = &stock
	}
	return resp
}

// NewWatchlistResponses converts a slice of watchlist entries.
func NewWatchlistResponses(entries []watchentity.Entry) []WatchlistResponse {
	out := make([]WatchlistResponse, 0, len(entries))
	for i := range entries {
		out = append(out, NewWatchlistResponse(&entries[i]))
	}
	return out
}

// WatchlistSummaryResponse is the count-plus-entries view.
type WatchlistSummaryResponse struct {
	TotalWatched int                 `json:"total_watched"`
	Watchlist    []WatchlistResponse `json:"watchlist"`
}

// TradeResponse is the public view of one trade-history row.
type TradeResponse struct {
	ID            uint           `json:"id"`
	StockID       uint           `json:"stock_id"`
	TradeType     string         `json:"trade_type"`
	Quantity      float64        `json:"quantity"`
	PricePerShare float64        `json:"price_per_share"`
	TotalAmount   float64        `json:"total_amount"`
	TradeDate     time.Time      `json:"trade_date"`
	Notes         string         `json:"notes,omitempty"`
	Stock         *StockResponse `json:"stock,omitempty"`
}

// NewTradeResponse converts a trade entity into its public view.
func NewTradeResponse(t *tradeentity.Trade) TradeResponse {
	resp := TradeResponse{
		ID:            t.ID,
		StockID:       t.StockID,
		TradeType:     t.TradeType,
		Quantity:      t.Quantity,
		PricePerShare: t.PricePerShare,
		TotalAmount:   t.TotalAmount,
		TradeDate:     t.TradeDate,
		Notes:         t.Notes,
	}
	if t.Stock.ID != 0 {
		stock := NewStockResponse(&t.Stock)
		resp.Stock = &stock
	}
	return resp
}

// NewTradeResponses converts a slice of trade entities.
func NewTradeResponses(trades []tradeentity.Trade) []TradeResponse {
	out := make([]TradeResponse, 0, len(trades))
	for i := range trades {
		out = append(out, NewTradeResponse(&trades[i]))
	}
	return out
}
