// Package http builds the outbound HTTP client shared by the market
// data providers.
package http

import (
	"net"
	"net/http"
	"time"
)

// NewHTTPClient creates the client used for Alpha Vantage and Yahoo
// calls. http.DefaultClient carries no timeout, so provider requests
// must always go through a client built here.
//
// The transport is set explicitly rather than inherited from the
// default. Proxy settings come from the environment. Dial and TLS
// handshake timeouts stay well under the overall request timeout so a
// stalled provider fails fast instead of eating the whole budget. Idle
// connections are pooled and kept alive, which lets bursts of quote
// requests reuse TCP sessions instead of redialing the providers.
func NewHTTPClient(timeout time.Duration) *http.Client {
	t := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: t}
}
