package ports

import (
	"context"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
)

// CreateStudentInput carries everything needed to enrol a student,
// including the password for the student's login credential.
type CreateStudentInput struct {
	Username      string
	Password      string
	FirstName     string
	LastName      string
	Email         string
	StudentNumber string
	Department    string
}

// UpdateStudentInput holds the mutable profile fields of a student.
type UpdateStudentInput struct {
	ID            string
	Username      string
	FirstName     string
	LastName      string
	StudentNumber string
	Department    string
}

type ListStudentsInput struct {
	Department string
	Search     string
	Page       int
	Limit      int
}

type ListStudentsResult struct {
	Items      []*domain.Student
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

// StudentService defines use-case operations for student records.
type StudentService interface {
	CreateStudent(ctx context.Context, input CreateStudentInput) (*domain.Student, error)
	GetStudent(ctx context.Context, id string) (*domain.Student, error)
	ListStudents(ctx context.Context, input ListStudentsInput) (*ListStudentsResult, error)
	UpdateStudent(ctx context.Context, input UpdateStudentInput) (*domain.Student, error)
	DeleteStudent(ctx context.Context, id string) error
}
