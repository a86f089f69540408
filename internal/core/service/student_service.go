package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
	"github.com/iset-tozeur/library-backend/internal/pkg/metrics"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
	maxPage          = 100000
)

type StudentService struct {
	students  ports.StudentRepository
	creds     ports.CredentialRepository
	passwords *PasswordVerifier
	logger    zerolog.Logger
}

func NewStudentService(
	students ports.StudentRepository,
	creds ports.CredentialRepository,
	passwords *PasswordVerifier,
	logger zerolog.Logger,
) *StudentService {
	return &StudentService{students: students, creds: creds, passwords: passwords, logger: logger}
}

// CreateStudent creates the student's login credential (role student) and
// then the student record. If the record cannot be stored the credential is
// removed again.
func (s *StudentService) CreateStudent(ctx context.Context, input ports.CreateStudentInput) (*domain.Student, error) {
	email := domain.NormalizeEmail(input.Email)

	hash, err := s.passwords.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	cred, err := s.creds.Create(ctx, &domain.Credential{
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleStudent,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		return nil, err
	}

	student := &domain.Student{
		IdentityID:    cred.ID,
		Username:      input.Username,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		Email:         email,
		StudentNumber: input.StudentNumber,
		Department:    input.Department,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.students.Create(ctx, student); err != nil {
		if delErr := s.creds.Delete(ctx, cred.ID); delErr != nil {
			s.logger.Error().Err(delErr).Str("identity_id", cred.ID).Msg("failed to roll back student credential")
		}
		return nil, err
	}

	metrics.StudentsCreatedTotal.Inc()
	s.logger.Info().Str("student_id", student.ID).Str("identity_id", cred.ID).Msg("student created")
	return student, nil
}

func (s *StudentService) GetStudent(ctx context.Context, id string) (*domain.Student, error) {
	return s.students.FindByID(ctx, id)
}

func (s *StudentService) ListStudents(ctx context.Context, input ports.ListStudentsInput) (*ports.ListStudentsResult, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	items, total, err := s.students.List(ctx, ports.ListStudentsFilter{
		Department: input.Department,
		Search:     input.Search,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*domain.Student{}
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &ports.ListStudentsResult{
		Items:      items,
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
	}, nil
}

func (s *StudentService) UpdateStudent(ctx context.Context, input ports.UpdateStudentInput) (*domain.Student, error) {
	student, err := s.students.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	student.Username = input.Username
	student.FirstName = input.FirstName
	student.LastName = input.LastName
	student.StudentNumber = input.StudentNumber
	student.Department = input.Department
	student.UpdatedAt = time.Now().UTC()

	if err := s.students.Update(ctx, student); err != nil {
		return nil, err
	}
	return student, nil
}

// DeleteStudent removes the student and its credential, so outstanding
// tokens keep working until expiry but no new login is possible.
func (s *StudentService) DeleteStudent(ctx context.Context, id string) error {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.students.Delete(ctx, id); err != nil {
		return err
	}
	if student.IdentityID != "" {
		if err := s.creds.Delete(ctx, student.IdentityID); err != nil && !errors.Is(err, domain.ErrCredentialNotFound) {
			s.logger.Warn().Err(err).Str("identity_id", student.IdentityID).Msg("failed to delete student credential")
		}
	}
	s.logger.Info().Str("student_id", id).Msg("student deleted")
	return nil
}
