// Package middleware provides reusable HTTP middleware for the ShareIt API.
package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CallerHeader carries the id of the user a request acts for.
const CallerHeader = "X-Sharer-User-Id"

// NewCORSHandler returns a middleware that applies CORS headers based on allowedOrigins.
// Each entry in allowedOrigins must be a full origin (scheme + host, no trailing slash).
// Browsers must be allowed to send CallerHeader, which every booking route reads.
func NewCORSHandler(allowedOrigins []string) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", CallerHeader},
	})
	return func(next http.Handler) http.Handler {
		return c.Handler(next)
	}
}
