// Package csvfile implements the flat-file persistence layer: two UTF-8 CSV
// tables (estudiantes.csv and actividades.csv) with load-on-open and
// flush-on-write semantics.
//
// The backend assumes a single writer process. Two processes pointed at the
// same data directory race last-writer-wins with no locking; deployments that
// need concurrent access should use the postgres backend instead.
package csvfile

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// File names inside the data directory. The names are part of the interchange
// contract with the original dashboard.
const (
	studentsFile   = "estudiantes.csv"
	activitiesFile = "actividades.csv"
)

// Store owns the two CSV tables. It keeps both collections in memory and
// rewrites the backing file after every mutation, so a load sees exactly what
// the last successful flush wrote.
type Store struct {
	mu  sync.Mutex
	dir string

	students []*student.Student
	records  []*evidence.Record
}

// Open loads both tables from the data directory. Missing files yield empty
// collections, matching a fresh semester.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, shared.NewDomainError("csvfile", "Open", shared.ErrInvalidInput, "data directory is required")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, shared.WrapError("csvfile", "Open", shared.ErrStorageFailure, "cannot create data directory", err)
	}

	s := &Store{dir: dir}

	students, err := loadStudents(filepath.Join(dir, studentsFile))
	if err != nil {
		return nil, err
	}
	s.students = students

	records, err := loadRecords(filepath.Join(dir, activitiesFile))
	if err != nil {
		return nil, err
	}
	s.records = records

	return s, nil
}

// Students returns the registry view over the store.
func (s *Store) Students() *StudentRepository {
	return &StudentRepository{store: s}
}

// Evidence returns the evidence view over the store.
func (s *Store) Evidence() *EvidenceStore {
	return &EvidenceStore{store: s}
}

// flushStudents rewrites estudiantes.csv from memory.
// Writes go to a temp file in the same directory followed by a rename, so a
// failed write never leaves a partial table behind.
func (s *Store) flushStudents() error {
	return s.writeFile(studentsFile, encodeStudents(s.students))
}

// flushRecords rewrites actividades.csv from memory.
func (s *Store) flushRecords() error {
	return s.writeFile(activitiesFile, encodeRecords(s.records))
}

func (s *Store) writeFile(name string, rows [][]string) error {
	path := filepath.Join(s.dir, name)

	tmp, err := os.CreateTemp(s.dir, name+".tmp-*")
	if err != nil {
		return shared.WrapError("csvfile", "Flush", shared.ErrStorageFailure, "cannot create temp file", err)
	}
	tmpName := tmp.Name()

	if err := writeCSV(tmp, rows); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return shared.WrapError("csvfile", "Flush", shared.ErrStorageFailure, fmt.Sprintf("cannot write %s", name), err)
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return shared.WrapError("csvfile", "Flush", shared.ErrStorageFailure, fmt.Sprintf("cannot close %s", name), err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return shared.WrapError("csvfile", "Flush", shared.ErrStorageFailure, fmt.Sprintf("cannot replace %s", name), err)
	}

	return nil
}

// removeFile deletes a table file outright. Used by Clear, which restores the
// "fresh semester" state where no file exists yet.
func (s *Store) removeFile(name string) error {
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !os.IsNotExist(err) {
		return shared.WrapError("csvfile", "Clear", shared.ErrStorageFailure, fmt.Sprintf("cannot remove %s", name), err)
	}
	return nil
}
