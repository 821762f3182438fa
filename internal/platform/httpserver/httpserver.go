// Package httpserver builds the registry's HTTP server. Request bodies are
// small JSON documents, so the timeouts are deliberately tight.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server for the registry API.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
