package csvfile

import (
	"context"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// LifecycleManager implements evidence.Lifecycle over both CSV tables.
// Each operation runs under the single store lock, so the two tables move
// together within the process. The two file flushes are not atomic as a pair:
// a crash between them can leave one table ahead of the other, the same
// exposure the original flat-file dashboard has.
type LifecycleManager struct {
	store *Store
}

// Lifecycle returns the cleanup view over the store.
func (s *Store) Lifecycle() *LifecycleManager {
	return &LifecycleManager{store: s}
}

// ResetAll removes both backing files and empties both tables, restoring the
// fresh-semester state.
func (m *LifecycleManager) ResetAll(ctx context.Context) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	if err := m.store.removeFile(activitiesFile); err != nil {
		return err
	}
	if err := m.store.removeFile(studentsFile); err != nil {
		return err
	}

	m.store.students = nil
	m.store.records = nil
	return nil
}

// DeleteGroup removes the group's students and evidence. No-op when absent.
func (m *LifecycleManager) DeleteGroup(ctx context.Context, group student.Group) error {
	return m.deleteWhere(
		func(s *student.Student) bool { return s.Group == group },
		func(r *evidence.Record) bool { return r.Group == group },
	)
}

// DeleteStudent removes the student and their evidence. No-op when absent.
func (m *LifecycleManager) DeleteStudent(ctx context.Context, name student.Name) error {
	return m.deleteWhere(
		func(s *student.Student) bool { return s.Name == name },
		func(r *evidence.Record) bool { return r.Student == name },
	)
}

func (m *LifecycleManager) deleteWhere(
	matchStudent func(*student.Student) bool,
	matchRecord func(*evidence.Record) bool,
) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()

	prevStudents := m.store.students
	prevRecords := m.store.records

	keptStudents := make([]*student.Student, 0, len(prevStudents))
	for _, s := range prevStudents {
		if !matchStudent(s) {
			keptStudents = append(keptStudents, s)
		}
	}

	keptRecords := make([]*evidence.Record, 0, len(prevRecords))
	for _, r := range prevRecords {
		if !matchRecord(r) {
			keptRecords = append(keptRecords, r)
		}
	}

	if len(keptStudents) == len(prevStudents) && len(keptRecords) == len(prevRecords) {
		return nil
	}

	m.store.students = keptStudents
	m.store.records = keptRecords

	// Evidence first: if this flush fails, the roster file has not moved yet
	// and the rollback leaves both tables untouched on disk.
	if len(keptRecords) != len(prevRecords) {
		if err := m.store.flushRecords(); err != nil {
			m.store.students = prevStudents
			m.store.records = prevRecords
			return err
		}
	}

	if len(keptStudents) != len(prevStudents) {
		if err := m.store.flushStudents(); err != nil {
			m.store.students = prevStudents
			m.store.records = prevRecords
			return err
		}
	}

	return nil
}
