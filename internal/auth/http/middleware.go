// Package http provides HTTP middleware and utilities for authentication.
package http

import (
	"log/slog"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/allisson/useradmin/internal/audit"
	authDomain "github.com/allisson/useradmin/internal/auth/domain"
	authService "github.com/allisson/useradmin/internal/auth/service"
	apperrors "github.com/allisson/useradmin/internal/errors"
	"github.com/allisson/useradmin/internal/httputil"
)

// AuthenticationMiddleware verifies the bearer token of the request.
//
// The middleware:
// 1. Extracts the Bearer token from the Authorization header (case-insensitive)
// 2. Verifies signature, lifetime, audience and issuer via the TokenValidator
// 3. Stores the claims in the request context (see GetClaims)
// 4. Records preferred_username as the audit actor
//
// Error handling:
//   - Missing or malformed Authorization header → 401 Unauthorized
//   - Token rejected by the validator → 401 Unauthorized
func AuthenticationMiddleware(validator authService.TokenValidator, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			logger.Debug("authentication failed: missing authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		const bearerPrefix = "bearer "
		if len(authHeader) < len(bearerPrefix) ||
			!strings.EqualFold(authHeader[:len(bearerPrefix)], bearerPrefix) {
			logger.Debug("authentication failed: malformed authorization header")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		rawToken := strings.TrimSpace(authHeader[len(bearerPrefix):])
		if rawToken == "" {
			logger.Debug("authentication failed: empty bearer token")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		claims, err := validator.Validate(c.Request.Context(), rawToken)
		if err != nil {
			logger.Debug("authentication failed", slog.String("error", err.Error()))
			httputil.HandleErrorGin(c, err, logger)
			c.Abort()
			return
		}

		ctx := WithClaims(c.Request.Context(), claims)
		if claims.PreferredUsername != "" {
			ctx = audit.WithActor(ctx, claims.PreferredUsername)
		}
		c.Request = c.Request.WithContext(ctx)

		logger.Debug("authentication successful",
			slog.String("subject", claims.Subject),
			slog.String("username", claims.PreferredUsername))

		c.Next()
	}
}

// RequireRealmRole rejects subjects lacking role. It must run after
// AuthenticationMiddleware.
//
// Error handling:
//   - No claims in context → 401 Unauthorized
//   - Role not granted → 403 Forbidden
func RequireRealmRole(role string, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c.Request.Context())
		if !ok || claims == nil {
			logger.Debug("authorization failed: no claims in context")
			httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, logger)
			c.Abort()
			return
		}

		if !claims.HasRealmRole(role) {
			logger.Debug("authorization failed: missing realm role",
				slog.String("username", claims.PreferredUsername),
				slog.String("role", role))
			httputil.HandleErrorGin(c, authDomain.ErrMissingRole, logger)
			c.Abort()
			return
		}

		c.Next()
	}
}
