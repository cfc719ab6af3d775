package middleware

import (
	"net/http"

	"github.com/rs/cors"

	"salon-backend/internal/config"
)

// NewCORS builds the cross-origin policy for the booking and till frontends.
// Content-Disposition is exposed so the browser sees receipt filenames.
func NewCORS(cfg *config.Config) func(http.Handler) http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.Server.CorsAllowedOrigins,
		AllowedMethods:   cfg.Server.CorsAllowedMethods,
		AllowedHeaders:   cfg.Server.CorsAllowedHeaders,
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	})

	return c.Handler
}
