package auth

import (
	"context"
	"testing"
	"time"

	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	return NewJWTService(config.AuthConfig{
		Secret:   "test-secret-key-at-least-32-chars",
		Issuer:   "fts-receipts",
		TokenTTL: time.Hour,
	})
}

func TestIssueAndValidateKioskToken(t *testing.T) {
	svc := newTestJWTService()

	issued, err := svc.IssueKioskToken(" K-0042 ")
	require.NoError(t, err)
	assert.Equal(t, "Bearer", issued.TokenType)
	assert.WithinDuration(t, time.Now().Add(time.Hour), issued.ExpiresAt, 5*time.Second)

	claims, err := svc.ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "K-0042", claims.KioskID)
	assert.Equal(t, "K-0042", claims.Subject)
	assert.True(t, claims.HasScope(ScopeRender))
	assert.False(t, claims.HasScope(ScopeArchive))
	assert.NotEmpty(t, claims.ID)
}

func TestIssueKioskToken_ExplicitScopes(t *testing.T) {
	svc := newTestJWTService()

	issued, err := svc.IssueKioskToken("K-1", ScopeRender, ScopeArchive)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(issued.Token)
	require.NoError(t, err)
	assert.True(t, claims.HasScope(ScopeArchive))
}

func TestIssueKioskToken_RequiresKioskID(t *testing.T) {
	_, err := newTestJWTService().IssueKioskToken("  ")
	assert.ErrorIs(t, err, ErrMissingKioskID)
}

func TestValidateToken_Failures(t *testing.T) {
	svc := newTestJWTService()
	issued, err := svc.IssueKioskToken("K-1")
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		later := newTestJWTService()
		later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		_, err := later.ValidateToken(issued.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("not yet valid", func(t *testing.T) {
		earlier := newTestJWTService()
		earlier.now = func() time.Time { return time.Now().Add(-time.Hour) }
		_, err := earlier.ValidateToken(issued.Token)
		assert.ErrorIs(t, err, ErrTokenNotYetValid)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTService(config.AuthConfig{Secret: "another-secret-key-of-32-characters", Issuer: "fts-receipts", TokenTTL: time.Hour})
		_, err := other.ValidateToken(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTService(config.AuthConfig{Secret: "test-secret-key-at-least-32-chars", Issuer: "someone-else", TokenTTL: time.Hour})
		_, err := other.ValidateToken(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.ValidateToken("not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("none algorithm", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodNone, &KioskClaims{KioskID: "K-1"})
		signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("missing kiosk id", func(t *testing.T) {
		now := time.Now()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, &KioskClaims{
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer:    "fts-receipts",
				Audience:  jwt.ClaimStrings{"fts-receipts"},
				ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
			},
		})
		signed, err := token.SignedString([]byte("test-secret-key-at-least-32-chars"))
		require.NoError(t, err)
		_, err = svc.ValidateToken(signed)
		assert.ErrorIs(t, err, ErrMissingKioskID)
	})
}

func TestExtractTokenFromHeader(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr bool
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", false},
		{"bearer abc", "abc", false},
		{"Bearer ", "", true},
		{"Basic dXNlcjpwYXNz", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			got, err := ExtractTokenFromHeader(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInMemoryKioskRevocations(t *testing.T) {
	r := NewInMemoryKioskRevocations()
	revokedAt := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return revokedAt }
	ctx := context.Background()

	revoked, err := r.IsRevoked(ctx, "K-1", revokedAt.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, r.Revoke(ctx, "K-1", time.Hour))

	revoked, _ = r.IsRevoked(ctx, "K-1", revokedAt.Add(-time.Hour))
	assert.True(t, revoked, "issued before revocation")
	revoked, _ = r.IsRevoked(ctx, "K-1", revokedAt)
	assert.True(t, revoked, "issued at revocation")
	revoked, _ = r.IsRevoked(ctx, "K-1", revokedAt.Add(time.Second))
	assert.False(t, revoked, "reissued afterwards")
	revoked, _ = r.IsRevoked(ctx, "K-2", revokedAt.Add(-time.Hour))
	assert.False(t, revoked)
}
