package ports

import (
	"context"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

// ListStudentsFilter carries the query parameters for listing students.
type ListStudentsFilter struct {
	Department string // optional exact match
	Search     string // optional: partial match on name, username or email
	Page       int    // 1-based
	Limit      int    // capped at 100 by the service
}

// StudentRepository defines persistence operations for students.
type StudentRepository interface {
	Create(ctx context.Context, s *domain.Student) error
	FindByID(ctx context.Context, id string) (*domain.Student, error)
	List(ctx context.Context, filter ListStudentsFilter) ([]*domain.Student, int64, error)
	Update(ctx context.Context, s *domain.Student) error
	Delete(ctx context.Context, id string) error
}
