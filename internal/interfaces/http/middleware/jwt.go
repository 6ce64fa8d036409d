package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/infrastructure/auth"
	"github.com/fueltire/receipts/internal/infrastructure/logger"
	"github.com/fueltire/receipts/internal/interfaces/http/dto"
)

// JWT context keys
const (
	KioskClaimsKey = "kiosk_claims"
	AuthHeaderKey  = "Authorization"
)

// KioskAuthConfig holds configuration for the kiosk auth middleware
type KioskAuthConfig struct {
	// JWTService is required for token validation
	JWTService *auth.JWTService
	// Revocations is optional; when set, tokens issued before a kiosk's
	// revocation are rejected
	Revocations auth.KioskRevocations
	// SkipPaths are paths that don't require authentication
	SkipPaths []string
	// Logger for middleware logging
	Logger *zap.Logger
}

// KioskAuth validates the bearer token and stores the kiosk claims in the context
func KioskAuth(cfg KioskAuthConfig) gin.HandlerFunc {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		tokenString, err := auth.ExtractTokenFromHeader(c.GetHeader(AuthHeaderKey))
		if err != nil {
			handleAuthError(c, cfg, err, "Missing or malformed authorization header")
			return
		}

		claims, err := cfg.JWTService.ValidateToken(tokenString)
		if err != nil {
			handleAuthError(c, cfg, err, "Token validation failed")
			return
		}

		if cfg.Revocations != nil {
			var issuedAt time.Time
			if claims.IssuedAt != nil {
				issuedAt = claims.IssuedAt.Time
			}
			revoked, err := cfg.Revocations.IsRevoked(c.Request.Context(), claims.KioskID, issuedAt)
			if err != nil {
				// fail open: a revocation store outage must not stop printing
				cfg.Logger.Error("Failed to check kiosk revocation",
					zap.String("kiosk_id", claims.KioskID),
					zap.Error(err))
			} else if revoked {
				handleAuthError(c, cfg, auth.ErrKioskRevoked, "Kiosk token has been revoked")
				return
			}
		}

		c.Set(KioskClaimsKey, claims)
		c.Set(logger.GinKioskIDKey, claims.KioskID)

		ctx, _ := logger.WithKioskID(c.Request.Context(), logger.FromContext(c.Request.Context()), claims.KioskID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RequireScope rejects tokens that do not grant scope. It must run after KioskAuth.
func RequireScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetKioskClaims(c)
		if claims == nil {
			abortWithError(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
			return
		}
		if !claims.HasScope(scope) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, "Token lacks the "+scope+" scope")
			return
		}
		c.Next()
	}
}

func handleAuthError(c *gin.Context, cfg KioskAuthConfig, err error, message string) {
	cfg.Logger.Warn("Kiosk authentication failed",
		zap.Error(err),
		zap.String("message", message),
		zap.String("path", c.Request.URL.Path),
	)

	code := dto.ErrCodeUnauthorized
	errorMessage := "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, errorMessage = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrKioskRevoked):
		code, errorMessage = dto.ErrCodeTokenRevoked, "Token has been revoked"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims),
		errors.Is(err, auth.ErrTokenNotYetValid), errors.Is(err, auth.ErrMissingKioskID):
		code, errorMessage = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	abortWithError(c, http.StatusUnauthorized, code, errorMessage)
}

// GetKioskClaims retrieves kiosk claims from gin.Context
func GetKioskClaims(c *gin.Context) *auth.KioskClaims {
	if claims, exists := c.Get(KioskClaimsKey); exists {
		if kioskClaims, ok := claims.(*auth.KioskClaims); ok {
			return kioskClaims
		}
	}
	return nil
}

// GetKioskID retrieves the authenticated kiosk id, or ""
func GetKioskID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(logger.GinKioskIDKey))
}
