// Package cors answers cross-origin requests from an allow list of origins.
package cors

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// Middleware wraps go-chi/cors with the methods and headers the lineup API
// needs. "*" allows any origin. An empty list disables CORS.
func Middleware(origins []string) func(next http.Handler) http.Handler {
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			allowed = append(allowed, o)
		}
	}
	if len(allowed) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: allowed,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type"},
		MaxAge:         600,
	})
}
