package service

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

func newFixedTokenService(at time.Time) *TokenService {
	svc := NewTokenService([]byte("test-signing-key"), time.Hour)
	svc.now = func() time.Time { return at }
	return svc
}

func requireTokenKind(t *testing.T, err error, kind domain.TokenErrorKind) {
	t.Helper()
	require.Error(t, err)
	require.True(t, domain.IsTokenError(err, kind), "expected %s, got %v", kind, err)
}

func TestTokenService_IssueThenValidate(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newFixedTokenService(issuedAt)

	token, expiresAt, err := svc.Issue("identity-1", domain.RoleStudent)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, issuedAt.Add(time.Hour), expiresAt)

	claims, err := svc.Validate(token)
	require.NoError(t, err)
	require.Equal(t, "identity-1", claims.IdentityID)
	require.Equal(t, domain.RoleStudent, claims.Role)
	require.Equal(t, issuedAt, claims.IssuedAt.UTC())
	require.Equal(t, expiresAt, claims.ExpiresAt.UTC())
	require.NotEmpty(t, claims.TokenID)
}

func TestTokenService_Issue_RejectsInvalidIdentity(t *testing.T) {
	svc := NewTokenService([]byte("k"), time.Hour)

	_, _, err := svc.Issue("", domain.RoleAdmin)
	require.Error(t, err)

	_, _, err = svc.Issue("identity-1", domain.Role("librarian"))
	require.Error(t, err)
}

func TestTokenService_DefaultTTL(t *testing.T) {
	svc := NewTokenService([]byte("k"), 0)
	require.Equal(t, DefaultTokenTTL, svc.TTL())
}

func TestTokenService_Expiry(t *testing.T) {
	issuedAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	svc := newFixedTokenService(issuedAt)

	token, expiresAt, err := svc.Issue("identity-1", domain.RoleAdmin)
	require.NoError(t, err)

	svc.now = func() time.Time { return expiresAt.Add(-time.Second) }
	_, err = svc.Validate(token)
	require.NoError(t, err, "token must be valid just before expiry")

	svc.now = func() time.Time { return expiresAt }
	_, err = svc.Validate(token)
	requireTokenKind(t, err, domain.TokenExpired)

	svc.now = func() time.Time { return expiresAt.Add(24 * time.Hour) }
	_, err = svc.Validate(token)
	requireTokenKind(t, err, domain.TokenExpired)
}

func TestTokenService_SingleCharacterTampering(t *testing.T) {
	svc := newFixedTokenService(time.Now())
	token, _, err := svc.Issue("identity-1", domain.RoleAdmin)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)

	tests := []struct {
		name    string
		segment int
	}{
		{"header", 0},
		{"payload", 1},
		{"signature", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tampered := make([]string, 3)
			copy(tampered, parts)
			seg := []byte(tampered[tt.segment])
			i := len(seg) / 2
			if seg[i] == 'A' {
				seg[i] = 'B'
			} else {
				seg[i] = 'A'
			}
			tampered[tt.segment] = string(seg)

			_, err := svc.Validate(strings.Join(tampered, "."))
			requireTokenKind(t, err, domain.SignatureInvalid)
		})
	}
}

func TestTokenService_ForeignKey(t *testing.T) {
	other := NewTokenService([]byte("some-other-key"), time.Hour)
	token, _, err := other.Issue("identity-1", domain.RoleAdmin)
	require.NoError(t, err)

	svc := NewTokenService([]byte("test-signing-key"), time.Hour)
	_, err = svc.Validate(token)
	requireTokenKind(t, err, domain.SignatureInvalid)
}

func TestTokenService_Malformed(t *testing.T) {
	svc := NewTokenService([]byte("test-signing-key"), time.Hour)

	tests := []struct {
		name  string
		token string
		kind  domain.TokenErrorKind
	}{
		{"empty", "", domain.TokenMissing},
		{"single segment", "not-a-token", domain.TokenMalformed},
		{"two segments", "a.b", domain.TokenMalformed},
		{"empty segment", "a..c", domain.TokenMalformed},
		{"four segments", "a.b.c.d", domain.TokenMalformed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Validate(tt.token)
			requireTokenKind(t, err, tt.kind)
		})
	}
}

func TestTokenService_Truncated(t *testing.T) {
	svc := NewTokenService([]byte("test-signing-key"), time.Hour)
	token, _, err := svc.Issue("identity-1", domain.RoleAdmin)
	require.NoError(t, err)

	_, err = svc.Validate(token[:len(token)-1])
	require.Error(t, err)
	var ae *domain.AuthError
	require.ErrorAs(t, err, &ae)
	require.NotEqual(t, domain.TokenExpired, ae.Kind)
}

func TestTokenService_MissingRoleClaim(t *testing.T) {
	key := []byte("test-signing-key")
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "identity-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := raw.SignedString(key)
	require.NoError(t, err)

	_, err = NewTokenService(key, time.Hour).Validate(signed)
	requireTokenKind(t, err, domain.TokenMalformed)
}

func TestTokenService_MissingExpiry(t *testing.T) {
	key := []byte("test-signing-key")
	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "identity-1",
		"role": "admin",
	})
	signed, err := raw.SignedString(key)
	require.NoError(t, err)

	_, err = NewTokenService(key, time.Hour).Validate(signed)
	requireTokenKind(t, err, domain.TokenMalformed)
}

func TestTokenService_RejectsOtherAlgorithm(t *testing.T) {
	key := []byte("test-signing-key")
	raw := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.MapClaims{
		"sub":  "identity-1",
		"role": "admin",
		"exp":  time.Now().Add(time.Hour).Unix(),
	})
	signed, err := raw.SignedString(key)
	require.NoError(t, err)

	_, err = NewTokenService(key, time.Hour).Validate(signed)
	require.Error(t, err)
}
