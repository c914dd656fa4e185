package csvfile

import (
	"context"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// EvidenceStore implements evidence.Store over actividades.csv.
type EvidenceStore struct {
	store *Store
}

// Upsert replaces the row matching the record's (student, group, activity)
// key, or appends a new one. The match runs against current memory under the
// store lock, so within one process the table never ends up with two rows
// sharing a key.
func (e *EvidenceStore) Upsert(ctx context.Context, record *evidence.Record) error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	key := record.Key()
	previous := e.store.records

	replaced := false
	next := make([]*evidence.Record, len(previous))
	copy(next, previous)
	for i, existing := range next {
		if existing.Key() == key {
			next[i] = record.Clone()
			replaced = true
			break
		}
	}
	if !replaced {
		next = append(next, record.Clone())
	}

	e.store.records = next

	if err := e.store.flushRecords(); err != nil {
		e.store.records = previous
		return err
	}

	return nil
}

// Query returns the records matching the filter in insertion order.
// An empty Student means no student constraint ("Todos").
func (e *EvidenceStore) Query(ctx context.Context, filter evidence.Filter) ([]*evidence.Record, error) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	records := make([]*evidence.Record, 0)
	for _, r := range e.store.records {
		if filter.Group != "" && r.Group != filter.Group {
			continue
		}
		if filter.Student != "" && r.Student != filter.Student {
			continue
		}
		records = append(records, r.Clone())
	}

	return records, nil
}

// RemoveByGroup filters out the group's evidence. No-op when absent.
func (e *EvidenceStore) RemoveByGroup(ctx context.Context, group student.Group) error {
	return e.removeWhere(func(r *evidence.Record) bool { return r.Group == group })
}

// RemoveByName filters out the student's evidence. No-op when absent.
func (e *EvidenceStore) RemoveByName(ctx context.Context, name student.Name) error {
	return e.removeWhere(func(r *evidence.Record) bool { return r.Student == name })
}

func (e *EvidenceStore) removeWhere(match func(*evidence.Record) bool) error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	kept := make([]*evidence.Record, 0, len(e.store.records))
	for _, r := range e.store.records {
		if !match(r) {
			kept = append(kept, r)
		}
	}

	if len(kept) == len(e.store.records) {
		return nil
	}

	previous := e.store.records
	e.store.records = kept

	if err := e.store.flushRecords(); err != nil {
		e.store.records = previous
		return err
	}

	return nil
}

// Clear empties the evidence table and removes its backing file.
func (e *EvidenceStore) Clear(ctx context.Context) error {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	if err := e.store.removeFile(activitiesFile); err != nil {
		return err
	}

	e.store.records = nil
	return nil
}

// Count returns the number of stored evidence records.
func (e *EvidenceStore) Count(ctx context.Context) (int, error) {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()

	return len(e.store.records), nil
}
