package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

// CredentialRepository implements ports.CredentialRepository on PostgreSQL.
type CredentialRepository struct {
	pool *pgxpool.Pool
}

func NewCredentialRepository(pool *pgxpool.Pool) *CredentialRepository {
	return &CredentialRepository{pool: pool}
}

func (r *CredentialRepository) Create(ctx context.Context, cred *domain.Credential) (*domain.Credential, error) {
	const query = `
		INSERT INTO credentials (id, email, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	created := &domain.Credential{
		ID:           uuid.NewString(),
		Email:        domain.NormalizeEmail(cred.Email),
		PasswordHash: cred.PasswordHash,
		Role:         cred.Role,
		CreatedAt:    cred.CreatedAt.UTC().Truncate(time.Microsecond),
		UpdatedAt:    cred.UpdatedAt.UTC().Truncate(time.Microsecond),
	}

	_, err = conn.Exec(ctx, query,
		created.ID, created.Email, created.PasswordHash, created.Role.String(),
		created.CreatedAt, created.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrCredentialExists
		}
		return nil, fmt.Errorf("insert credential: %w", err)
	}
	return created, nil
}

func (r *CredentialRepository) FindByEmail(ctx context.Context, email string) (*domain.Credential, error) {
	const query = `
		SELECT id, email, password_hash, role, created_at, updated_at
		FROM credentials
		WHERE email = $1
	`

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var (
		c    domain.Credential
		role string
	)
	err = conn.QueryRow(ctx, query, domain.NormalizeEmail(email)).Scan(
		&c.ID, &c.Email, &c.PasswordHash, &role, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrCredentialNotFound
		}
		return nil, fmt.Errorf("find credential: %w", err)
	}
	c.Role = domain.Role(role)
	c.CreatedAt = c.CreatedAt.UTC()
	c.UpdatedAt = c.UpdatedAt.UTC()
	return &c, nil
}

func (r *CredentialRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrCredentialNotFound
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM credentials WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete credential: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCredentialNotFound
	}
	return nil
}
