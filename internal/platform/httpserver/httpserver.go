// Package httpserver builds the HTTP server the settlement API runs behind.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server for the settlement API. The header timeout bounds
// slow clients before they reach a handler.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
