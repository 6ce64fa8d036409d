package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Scopes a kiosk token may carry
const (
	ScopeRender   = "receipts:render"
	ScopeArchive  = "receipts:archive"
	ScopeSettings = "receipts:settings"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingKioskID   = errors.New("missing kiosk_id in claims")
	ErrMissingScope     = errors.New("token lacks the required scope")
	ErrKioskRevoked     = errors.New("kiosk token has been revoked")
)

// KioskClaims are the claims of a kiosk access token
type KioskClaims struct {
	jwt.RegisteredClaims
	KioskID string   `json:"kiosk_id"`
	Scopes  []string `json:"scopes,omitempty"`
}

// HasScope reports whether the token grants scope
func (c *KioskClaims) HasScope(scope string) bool {
	for _, s := range c.Scopes {
		if s == scope {
			return true
		}
	}
	return false
}

// JWTService issues and validates kiosk tokens signed with HS256
type JWTService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
	now        func() time.Time
}

// NewJWTService creates a new JWT service
func NewJWTService(cfg config.AuthConfig) *JWTService {
	return &JWTService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.TokenTTL,
		issuer:     cfg.Issuer,
		now:        time.Now,
	}
}

// IssuedToken is a signed token and its expiry
type IssuedToken struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	TokenType string    `json:"token_type"` // Bearer
}

// IssueKioskToken signs a token for kioskID with the given scopes
// (ScopeRender when none are given)
func (s *JWTService) IssueKioskToken(kioskID string, scopes ...string) (*IssuedToken, error) {
	kioskID = strings.TrimSpace(kioskID)
	if kioskID == "" {
		return nil, ErrMissingKioskID
	}
	if len(scopes) == 0 {
		scopes = []string{ScopeRender}
	}

	now := s.now()
	expiresAt := now.Add(s.expiration)
	claims := &KioskClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   kioskID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		KioskID: kioskID,
		Scopes:  scopes,
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &IssuedToken{Token: token, ExpiresAt: expiresAt, TokenType: "Bearer"}, nil
}

// ValidateToken validates a kiosk token and returns its claims
func (s *JWTService) ValidateToken(tokenString string) (*KioskClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &KioskClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return nil, ErrTokenNotYetValid
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*KioskClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.KioskID == "" {
		return nil, ErrMissingKioskID
	}
	return claims, nil
}

// ExtractTokenFromHeader extracts the token from an "Authorization: Bearer <token>" value
func ExtractTokenFromHeader(authHeader string) (string, error) {
	const prefix = "Bearer "
	if len(authHeader) <= len(prefix) || !strings.EqualFold(authHeader[:len(prefix)], prefix) {
		return "", ErrInvalidToken
	}
	token := strings.TrimSpace(authHeader[len(prefix):])
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
