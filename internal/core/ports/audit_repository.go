package ports

import (
	"context"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

// AuditRepository persists login audit records.
type AuditRepository interface {
	InsertLoginEvent(ctx context.Context, event *domain.LoginEvent) error
}
