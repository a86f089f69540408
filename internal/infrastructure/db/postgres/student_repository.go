package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/iset-tozeur/library-backend/internal/core/domain"
	"github.com/iset-tozeur/library-backend/internal/core/ports"
)

const studentColumns = `id, COALESCE(identity_id::text, ''), username, first_name, last_name,
	email, COALESCE(student_number, ''), department, created_at, updated_at`

// StudentRepository implements ports.StudentRepository on PostgreSQL.
type StudentRepository struct {
	pool *pgxpool.Pool
}

func NewStudentRepository(pool *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{pool: pool}
}

func scanStudent(row pgx.Row) (*domain.Student, error) {
	var s domain.Student
	if err := row.Scan(
		&s.ID, &s.IdentityID, &s.Username, &s.FirstName, &s.LastName,
		&s.Email, &s.StudentNumber, &s.Department, &s.CreatedAt, &s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	s.CreatedAt = s.CreatedAt.UTC()
	s.UpdatedAt = s.UpdatedAt.UTC()
	return &s, nil
}

// Create inserts a new student row and sets s.ID.
func (r *StudentRepository) Create(ctx context.Context, s *domain.Student) error {
	const query = `
		INSERT INTO students (id, identity_id, username, first_name, last_name,
			email, student_number, department, created_at, updated_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, NULLIF($7, ''), $8, $9, $10)
	`

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	id := uuid.NewString()
	_, err = conn.Exec(ctx, query,
		id, s.IdentityID, s.Username, s.FirstName, s.LastName,
		s.Email, s.StudentNumber, s.Department,
		s.CreatedAt.UTC().Truncate(time.Microsecond), s.UpdatedAt.UTC().Truncate(time.Microsecond),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStudentExists
		}
		return fmt.Errorf("insert student: %w", err)
	}
	s.ID = id
	return nil
}

func (r *StudentRepository) FindByID(ctx context.Context, id string) (*domain.Student, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrStudentNotFound
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	s, err := scanStudent(conn.QueryRow(ctx, `SELECT `+studentColumns+` FROM students WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, domain.ErrStudentNotFound
		}
		return nil, fmt.Errorf("find student: %w", err)
	}
	return s, nil
}

// List returns one page of students, newest first, plus the total match count.
func (r *StudentRepository) List(ctx context.Context, f ports.ListStudentsFilter) ([]*domain.Student, int64, error) {
	where, args := studentWhere(f)

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var total int64
	if err := conn.QueryRow(ctx, `SELECT COUNT(*) FROM students`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count students: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM students%s ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`,
		studentColumns, where, len(args)+1, len(args)+2)
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := conn.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	out := make([]*domain.Student, 0, f.Limit)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan student: %w", err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate students: %w", err)
	}
	return out, total, nil
}

// studentWhere builds the WHERE clause and its positional arguments for f.
// Search is matched as a case-insensitive literal substring.
func studentWhere(f ports.ListStudentsFilter) (string, []any) {
	var (
		conds []string
		args  []any
	)
	if f.Department != "" {
		args = append(args, f.Department)
		conds = append(conds, fmt.Sprintf("department = $%d", len(args)))
	}
	if f.Search != "" {
		args = append(args, "%"+escapeLike(f.Search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(first_name ILIKE $%[1]d OR last_name ILIKE $%[1]d OR username ILIKE $%[1]d OR email ILIKE $%[1]d)", n))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

func (r *StudentRepository) Update(ctx context.Context, s *domain.Student) error {
	const query = `
		UPDATE students
		SET username = $2, first_name = $3, last_name = $4,
			student_number = NULLIF($5, ''), department = $6, updated_at = $7
		WHERE id = $1
	`

	if _, err := uuid.Parse(s.ID); err != nil {
		return domain.ErrStudentNotFound
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, query,
		s.ID, s.Username, s.FirstName, s.LastName, s.StudentNumber, s.Department,
		s.UpdatedAt.UTC().Truncate(time.Microsecond),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrStudentExists
		}
		return fmt.Errorf("update student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}

func (r *StudentRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrStudentNotFound
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `DELETE FROM students WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrStudentNotFound
	}
	return nil
}
