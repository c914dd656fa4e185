package postgres

import (
	"context"
	"fmt"

	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// STUDENT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StudentRepository implements student.Repository for PostgreSQL.
type StudentRepository struct {
	conn *Connection
}

// NewStudentRepository creates a new StudentRepository.
func NewStudentRepository(conn *Connection) *StudentRepository {
	return &StudentRepository{conn: conn}
}

// Register creates a new student row.
func (r *StudentRepository) Register(ctx context.Context, s *student.Student) error {
	query := `
		INSERT INTO estudiantes (id, nombre, grupo, registered_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.conn.Exec(ctx, query,
		s.ID,
		s.Name.String(),
		s.Group.String(),
		s.RegisteredAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return shared.ErrStudentAlreadyExists
		}
		return fmt.Errorf("failed to register student: %w", err)
	}

	return nil
}

// GetByName returns a student by name.
func (r *StudentRepository) GetByName(ctx context.Context, name student.Name) (*student.Student, error) {
	query := `
		SELECT id, nombre, grupo, registered_at
		FROM estudiantes
		WHERE nombre = $1
	`

	row := r.conn.QueryRow(ctx, query, name.String())
	return scanStudent(row)
}

// ListGroups returns the distinct groups sorted lexicographically.
func (r *StudentRepository) ListGroups(ctx context.Context) ([]student.Group, error) {
	query := `
		SELECT DISTINCT grupo
		FROM estudiantes
		ORDER BY grupo ASC
	`

	rows, err := r.conn.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	groups := make([]student.Group, 0)
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("failed to scan group row: %w", err)
		}
		groups = append(groups, student.Group(g))
	}

	return groups, rows.Err()
}

// ListStudents returns the students of a group in registration order.
func (r *StudentRepository) ListStudents(ctx context.Context, group student.Group) ([]*student.Student, error) {
	query := `
		SELECT id, nombre, grupo, registered_at
		FROM estudiantes
		WHERE grupo = $1
		ORDER BY seq ASC
	`

	rows, err := r.conn.Query(ctx, query, group.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list students: %w", err)
	}
	defer rows.Close()

	return scanStudents(rows)
}

// RemoveByGroup deletes all students of the group. No-op when absent.
func (r *StudentRepository) RemoveByGroup(ctx context.Context, group student.Group) error {
	_, err := r.conn.Exec(ctx, "DELETE FROM estudiantes WHERE grupo = $1", group.String())
	if err != nil {
		return fmt.Errorf("failed to remove students by group: %w", err)
	}
	return nil
}

// RemoveByName deletes the named student. No-op when absent.
func (r *StudentRepository) RemoveByName(ctx context.Context, name student.Name) error {
	_, err := r.conn.Exec(ctx, "DELETE FROM estudiantes WHERE nombre = $1", name.String())
	if err != nil {
		return fmt.Errorf("failed to remove student by name: %w", err)
	}
	return nil
}

// Clear empties the registry.
func (r *StudentRepository) Clear(ctx context.Context) error {
	_, err := r.conn.Exec(ctx, "DELETE FROM estudiantes")
	if err != nil {
		return fmt.Errorf("failed to clear students: %w", err)
	}
	return nil
}

// Count returns the total number of students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.conn.QueryRow(ctx, "SELECT COUNT(*) FROM estudiantes").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count students: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Scan helpers
// ─────────────────────────────────────────────────────────────────────────────

func scanStudent(row pgx.Row) (*student.Student, error) {
	var s student.Student
	var name, group string

	err := row.Scan(&s.ID, &name, &group, &s.RegisteredAt)
	if err != nil {
		if IsNoRows(err) {
			return nil, shared.ErrStudentNotFound
		}
		return nil, fmt.Errorf("failed to scan student: %w", err)
	}

	s.Name = student.Name(name)
	s.Group = student.Group(group)
	return &s, nil
}

func scanStudents(rows pgx.Rows) ([]*student.Student, error) {
	students := make([]*student.Student, 0)
	for rows.Next() {
		var s student.Student
		var name, group string

		if err := rows.Scan(&s.ID, &name, &group, &s.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan student row: %w", err)
		}

		s.Name = student.Name(name)
		s.Group = student.Group(group)
		students = append(students, &s)
	}

	return students, rows.Err()
}
