package middleware

import (
	"log/slog"
	"net/http"

	"empire-server/internal/shared/config"

	"github.com/rs/cors"
)

type CORSMiddleware struct {
	*cors.Cors
}

// NewCORS allows the configured frontend origin only. Credentials are
// allowed because the session token travels in a cookie.
func NewCORS() *CORSMiddleware {
	cfg := config.GlobalConfig

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.Frontend.URL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
		Debug:            cfg.Frontend.CORSDebug,
	})

	slog.Info("CORS middleware configured",
		"component", "cors",
		"allowed_origin", cfg.Frontend.URL,
	)

	return &CORSMiddleware{c}
}

func (c *CORSMiddleware) Middleware(h http.Handler) http.Handler {
	return c.Cors.Handler(h)
}
