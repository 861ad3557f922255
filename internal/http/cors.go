package http

import (
	"log/slog"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// createCORSMiddleware allows the browser admin UI to call /users. A "*" origin
// allows any site but then credentials are not allowed. Returns nil when there
// is no origin to allow.
func createCORSMiddleware(origins []string, logger *slog.Logger) gin.HandlerFunc {
	if len(origins) == 0 {
		logger.Warn("CORS enabled but no origins configured; CORS will not be applied")
		return nil
	}

	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:  []string{"Authorization", "Content-Type", "X-Request-Id"},
		ExposeHeaders: []string{"X-Request-Id", "Location", "Retry-After"},
		MaxAge:        12 * time.Hour,
	}

	if slices.Contains(origins, "*") {
		config.AllowAllOrigins = true
		logger.Warn("CORS allows every origin")
	} else {
		config.AllowOrigins = origins
		config.AllowCredentials = true
		logger.Info("CORS enabled", slog.Any("origins", origins))
	}

	return cors.New(config)
}
