package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

// AuditRepository implements ports.AuditRepository on PostgreSQL.
type AuditRepository struct {
	pool *pgxpool.Pool
}

func NewAuditRepository(pool *pgxpool.Pool) *AuditRepository {
	return &AuditRepository{pool: pool}
}

func (r *AuditRepository) InsertLoginEvent(ctx context.Context, e *domain.LoginEvent) error {
	const query = `
		INSERT INTO login_events (email, role, outcome, remote_ip, occurred_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.pool.Exec(ctx, query,
		e.Email, string(e.Role), string(e.Outcome), e.RemoteIP, e.OccurredAt.UTC(),
	); err != nil {
		return fmt.Errorf("insert login event: %w", err)
	}
	return nil
}
