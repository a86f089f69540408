package service

import (
	"errors"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

const DefaultBcryptCost = 10

// PasswordVerifier hashes and checks passwords with bcrypt at a fixed cost.
type PasswordVerifier struct {
	cost int

	dummyOnce sync.Once
	dummy     []byte
}

// NewPasswordVerifier returns a verifier using cost, or DefaultBcryptCost
// when cost is outside bcrypt's accepted range.
func NewPasswordVerifier(cost int) *PasswordVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &PasswordVerifier{cost: cost}
}

func (p *PasswordVerifier) Cost() int { return p.cost }

// Hash returns a salted bcrypt hash of plaintext. Passwords over bcrypt's
// 72-byte input limit return domain.ErrPasswordTooLong.
func (p *PasswordVerifier) Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), p.cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.ErrPasswordTooLong
		}
		return "", err
	}
	return string(hash), nil
}

// Verify reports whether plaintext matches storedHash. A corrupt hash is a
// mismatch.
func (p *PasswordVerifier) Verify(plaintext, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(plaintext)) == nil
}

// Burn performs one comparison against a throwaway hash of the same cost.
// Login calls it for unknown emails so both paths do the same bcrypt work.
func (p *PasswordVerifier) Burn(plaintext string) {
	p.dummyOnce.Do(func() {
		p.dummy, _ = bcrypt.GenerateFromPassword([]byte("not-a-real-password"), p.cost)
	})
	_ = bcrypt.CompareHashAndPassword(p.dummy, []byte(plaintext))
}
