// Package api holds the request and response types shared by the HTTP
// handlers, plus the uniform error envelope every failure is translated
// into at the boundary.
package api

// SignupRequest is the body of POST /auth/signup.
type SignupRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Username string `json:"username" binding:"required,min=3,max=50"`
	FullName string `json:"full_name" binding:"omitempty,max=100"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest is the body of POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// StockCreateRequest is the body of POST /stocks.
type StockCreateRequest struct {
	Symbol      string `json:"symbol" binding:"required,max=10"`
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"omitempty,max=1000"`
	Sector      string `json:"sector" binding:"omitempty,max=100"`
	Exchange    string `json:"exchange" binding:"omitempty,max=50"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
}

// StockUpdateRequest is the body of PUT /stocks/:id. Pointer fields
// distinguish "not sent" from "set to empty"; only named fields can
// ever reach the store.
type StockUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,max=255"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Sector      *string `json:"sector" binding:"omitempty,max=100"`
	Exchange    *string `json:"exchange" binding:"omitempty,max=50"`
	Currency    *string `json:"currency" binding:"omitempty,len=3"`
}

// PositionCreateRequest is the body of POST /positions.
type PositionCreateRequest struct {
	StockID       uint    `json:"stock_id" binding:"required"`
	Quantity      float64 `json:"quantity" binding:"required,gt=0"`
	PurchasePrice float64 `json:"purchase_price" binding:"required,gt=0"`
}

// PositionUpdateRequest is the body of PUT /positions/:id.
type PositionUpdateRequest struct {
	Quantity      *float64 `json:"quantity" binding:"omitempty,gt=0"`
	PurchasePrice *float64 `json:"purchase_price" binding:"omitempty,gt=0"`
}

// WatchlistCreateRequest is the body of POST /watchlist.
type WatchlistCreateRequest struct {
	StockID uint   `json:"stock_id" binding:"required"`
	Notes   string `json:"notes" binding:"omitempty,max=500"`
}

// WatchlistNotesRequest is the optional body of POST /watchlist/symbol/:symbol.
type WatchlistNotesRequest struct {
	Notes string `json:"notes" binding:"omitempty,max=500"`
}

// WatchlistUpdateRequest is the body of PUT /watchlist/:id.
type WatchlistUpdateRequest struct {
	Notes *string `json:"notes" binding:"omitempty,max=500"`
}
