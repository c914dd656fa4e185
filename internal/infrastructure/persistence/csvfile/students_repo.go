package csvfile

import (
	"context"
	"sort"

	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// StudentRepository implements student.Repository over estudiantes.csv.
type StudentRepository struct {
	store *Store
}

// Register appends a new student row and flushes the table.
// Duplicate names are rejected: two indistinguishable rows sharing a name
// would make by-name deletion and evidence ambiguous.
func (r *StudentRepository) Register(ctx context.Context, s *student.Student) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.students {
		if existing.Name == s.Name {
			return shared.ErrStudentAlreadyExists
		}
	}

	r.store.students = append(r.store.students, s.Clone())

	if err := r.store.flushStudents(); err != nil {
		r.store.students = r.store.students[:len(r.store.students)-1]
		return err
	}

	return nil
}

// GetByName returns the student registered under the given name.
func (r *StudentRepository) GetByName(ctx context.Context, name student.Name) (*student.Student, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, s := range r.store.students {
		if s.Name == name {
			return s.Clone(), nil
		}
	}

	return nil, shared.ErrStudentNotFound
}

// ListGroups returns the distinct groups, sorted lexicographically.
func (r *StudentRepository) ListGroups(ctx context.Context) ([]student.Group, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	seen := make(map[student.Group]bool)
	groups := make([]student.Group, 0)
	for _, s := range r.store.students {
		if !seen[s.Group] {
			seen[s.Group] = true
			groups = append(groups, s.Group)
		}
	}

	sort.Slice(groups, func(i, j int) bool { return groups[i] < groups[j] })
	return groups, nil
}

// ListStudents returns the students of a group in registration order.
func (r *StudentRepository) ListStudents(ctx context.Context, group student.Group) ([]*student.Student, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	students := make([]*student.Student, 0)
	for _, s := range r.store.students {
		if s.Group == group {
			students = append(students, s.Clone())
		}
	}

	return students, nil
}

// RemoveByGroup filters out the group's students. No-op when absent.
func (r *StudentRepository) RemoveByGroup(ctx context.Context, group student.Group) error {
	return r.removeWhere(func(s *student.Student) bool { return s.Group == group })
}

// RemoveByName filters out the named student. No-op when absent.
func (r *StudentRepository) RemoveByName(ctx context.Context, name student.Name) error {
	return r.removeWhere(func(s *student.Student) bool { return s.Name == name })
}

func (r *StudentRepository) removeWhere(match func(*student.Student) bool) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	kept := make([]*student.Student, 0, len(r.store.students))
	for _, s := range r.store.students {
		if !match(s) {
			kept = append(kept, s)
		}
	}

	if len(kept) == len(r.store.students) {
		return nil
	}

	previous := r.store.students
	r.store.students = kept

	if err := r.store.flushStudents(); err != nil {
		r.store.students = previous
		return err
	}

	return nil
}

// Clear empties the registry and removes its backing file.
func (r *StudentRepository) Clear(ctx context.Context) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if err := r.store.removeFile(studentsFile); err != nil {
		return err
	}

	r.store.students = nil
	return nil
}

// Count returns the number of registered students.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	return len(r.store.students), nil
}
