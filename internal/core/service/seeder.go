package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
)

// SeedAccount describes a credential created at startup if missing.
type SeedAccount struct {
	Email    string
	Password string
	Role     domain.Role
}

// SeedCredentials creates each account whose email is not yet stored.
// Existing credentials are never modified.
func SeedCredentials(
	ctx context.Context,
	repo ports.CredentialRepository,
	passwords *PasswordVerifier,
	accounts []SeedAccount,
	log zerolog.Logger,
) error {
	for _, acc := range accounts {
		email := domain.NormalizeEmail(acc.Email)
		if email == "" || acc.Password == "" || !acc.Role.Valid() {
			continue
		}

		_, err := repo.FindByEmail(ctx, email)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrCredentialNotFound) {
			return fmt.Errorf("seed %s: %w", email, err)
		}

		hash, err := passwords.Hash(acc.Password)
		if err != nil {
			return fmt.Errorf("seed %s: hash password: %w", email, err)
		}

		now := time.Now().UTC()
		_, err = repo.Create(ctx, &domain.Credential{
			Email:        email,
			PasswordHash: hash,
			Role:         acc.Role,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
		if err != nil && !errors.Is(err, domain.ErrCredentialExists) {
			return fmt.Errorf("seed %s: %w", email, err)
		}

		log.Info().Str("email", email).Str("role", acc.Role.String()).Msg("seeded credential")
	}
	return nil
}
