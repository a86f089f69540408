package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

func TestPasswordVerifier_HashAndVerify(t *testing.T) {
	p := NewPasswordVerifier(bcrypt.MinCost)

	hash, err := p.Hash("admin123")
	require.NoError(t, err)
	require.NotEqual(t, "admin123", hash)
	require.True(t, strings.HasPrefix(hash, "$2"))

	require.True(t, p.Verify("admin123", hash))
	require.False(t, p.Verify("admin124", hash))
	require.False(t, p.Verify("", hash))
}

func TestPasswordVerifier_SaltedHashes(t *testing.T) {
	p := NewPasswordVerifier(bcrypt.MinCost)

	a, err := p.Hash("same-password")
	require.NoError(t, err)
	b, err := p.Hash("same-password")
	require.NoError(t, err)

	require.NotEqual(t, a, b)
	require.True(t, p.Verify("same-password", a))
	require.True(t, p.Verify("same-password", b))
}

func TestPasswordVerifier_CorruptHashIsMismatch(t *testing.T) {
	p := NewPasswordVerifier(bcrypt.MinCost)

	require.False(t, p.Verify("admin123", ""))
	require.False(t, p.Verify("admin123", "not-a-bcrypt-hash"))
	require.False(t, p.Verify("admin123", "$2a$04$truncated"))
}

func TestPasswordVerifier_Cost(t *testing.T) {
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"min", bcrypt.MinCost, bcrypt.MinCost},
		{"explicit", 12, 12},
		{"zero falls back", 0, DefaultBcryptCost},
		{"too high falls back", bcrypt.MaxCost + 1, DefaultBcryptCost},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, NewPasswordVerifier(tt.in).Cost())
		})
	}
}

func TestPasswordVerifier_HashUsesConfiguredCost(t *testing.T) {
	p := NewPasswordVerifier(bcrypt.MinCost)
	hash, err := p.Hash("x")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	require.Equal(t, bcrypt.MinCost, cost)
}

func TestPasswordVerifier_BurnDoesNotPanic(t *testing.T) {
	p := NewPasswordVerifier(bcrypt.MinCost)
	p.Burn("anything")
	p.Burn("")
}

func TestPasswordVerifier_HashRejectsOverlongPassword(t *testing.T) {
	p := NewPasswordVerifier(bcrypt.MinCost)

	_, err := p.Hash(strings.Repeat("a", 73))
	require.ErrorIs(t, err, domain.ErrPasswordTooLong)

	// 36 two-byte runes are 72 bytes, the largest accepted input.
	hash, err := p.Hash(strings.Repeat("é", 36))
	require.NoError(t, err)
	require.True(t, p.Verify(strings.Repeat("é", 36), hash))
}
