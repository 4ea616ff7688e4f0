// Package usecase implements the market-data proxy: primary provider,
// fallback provider, then a deterministic placeholder so the dashboard
// always has something to draw.
package usecase

import "errors"

// ErrProviderUnavailable is returned by provider adapters when the
// upstream cannot serve the symbol right now. The chain treats it the
// same as any other provider error and moves on.
var ErrProviderUnavailable = errors.New("market data provider unavailable")
