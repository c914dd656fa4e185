package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/rubric"
	"github.com/competencias-hub/seguimiento/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// EVIDENCE STORE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// EvidenceStore implements evidence.Store for PostgreSQL.
//
// The score sheet is stored as a JSONB map keyed by the interchange column
// name ("SING0101_E1"), so a psql session shows the same vocabulary as the
// CSV export.
type EvidenceStore struct {
	conn *Connection
}

// NewEvidenceStore creates a new EvidenceStore.
func NewEvidenceStore(conn *Connection) *EvidenceStore {
	return &EvidenceStore{conn: conn}
}

// Upsert saves the record, replacing any previous capture of the same
// (estudiante, grupo, actividad). The unique constraint makes the
// one-row-per-key rule hold even with concurrent writers.
func (s *EvidenceStore) Upsert(ctx context.Context, record *evidence.Record) error {
	niveles, err := encodeScores(record.Scores)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO actividades (id, estudiante, grupo, actividad, niveles, captured_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (estudiante, grupo, actividad)
		DO UPDATE SET
			niveles = EXCLUDED.niveles,
			captured_at = EXCLUDED.captured_at
	`

	_, err = s.conn.Exec(ctx, query,
		record.ID,
		record.Student.String(),
		record.Group.String(),
		record.Activity.String(),
		niveles,
		record.CapturedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert evidence record: %w", err)
	}

	return nil
}

// Query returns the records matching the filter in capture order.
// An empty Student means no student constraint.
func (s *EvidenceStore) Query(ctx context.Context, filter evidence.Filter) ([]*evidence.Record, error) {
	query := `
		SELECT id, estudiante, grupo, actividad, niveles, captured_at
		FROM actividades
		WHERE ($1 = '' OR grupo = $1)
		  AND ($2 = '' OR estudiante = $2)
		ORDER BY seq ASC
	`

	rows, err := s.conn.Query(ctx, query, filter.Group.String(), filter.Student.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query evidence records: %w", err)
	}
	defer rows.Close()

	return scanRecords(rows)
}

// RemoveByGroup deletes the group's evidence. No-op when absent.
func (s *EvidenceStore) RemoveByGroup(ctx context.Context, group student.Group) error {
	_, err := s.conn.Exec(ctx, "DELETE FROM actividades WHERE grupo = $1", group.String())
	if err != nil {
		return fmt.Errorf("failed to remove evidence by group: %w", err)
	}
	return nil
}

// RemoveByName deletes the student's evidence. No-op when absent.
func (s *EvidenceStore) RemoveByName(ctx context.Context, name student.Name) error {
	_, err := s.conn.Exec(ctx, "DELETE FROM actividades WHERE estudiante = $1", name.String())
	if err != nil {
		return fmt.Errorf("failed to remove evidence by student: %w", err)
	}
	return nil
}

// Clear empties the evidence table.
func (s *EvidenceStore) Clear(ctx context.Context) error {
	_, err := s.conn.Exec(ctx, "DELETE FROM actividades")
	if err != nil {
		return fmt.Errorf("failed to clear evidence: %w", err)
	}
	return nil
}

// Count returns the total number of evidence records.
func (s *EvidenceStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.conn.QueryRow(ctx, "SELECT COUNT(*) FROM actividades").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count evidence records: %w", err)
	}
	return count, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Score sheet codec
// ─────────────────────────────────────────────────────────────────────────────

func encodeScores(scores evidence.ScoreSheet) ([]byte, error) {
	niveles := make(map[string]string, len(rubric.Competencies())*rubric.Elements)
	for _, c := range rubric.Competencies() {
		for e := 1; e <= rubric.Elements; e++ {
			level, err := scores.Level(c, e)
			if err != nil {
				return nil, err
			}
			niveles[rubric.ColumnName(c, e)] = level.String()
		}
	}

	data, err := json.Marshal(niveles)
	if err != nil {
		return nil, fmt.Errorf("failed to encode score sheet: %w", err)
	}
	return data, nil
}

func decodeScores(data []byte) (evidence.ScoreSheet, error) {
	var niveles map[string]string
	if err := json.Unmarshal(data, &niveles); err != nil {
		return nil, fmt.Errorf("failed to decode score sheet: %w", err)
	}

	scores := evidence.NewScoreSheet()
	for _, c := range rubric.Competencies() {
		for e := 1; e <= rubric.Elements; e++ {
			raw, ok := niveles[rubric.ColumnName(c, e)]
			if !ok {
				continue
			}
			level, err := rubric.ParseLevel(raw)
			if err != nil {
				return nil, err
			}
			if err := scores.Set(c, e, level); err != nil {
				return nil, err
			}
		}
	}

	return scores, nil
}

func scanRecords(rows pgx.Rows) ([]*evidence.Record, error) {
	records := make([]*evidence.Record, 0)
	for rows.Next() {
		var r evidence.Record
		var name, group, activity string
		var niveles []byte

		if err := rows.Scan(&r.ID, &name, &group, &activity, &niveles, &r.CapturedAt); err != nil {
			return nil, fmt.Errorf("failed to scan evidence row: %w", err)
		}

		scores, err := decodeScores(niveles)
		if err != nil {
			return nil, err
		}

		r.Student = student.Name(name)
		r.Group = student.Group(group)
		r.Activity = rubric.Activity(activity)
		r.Scores = scores
		records = append(records, &r)
	}

	return records, rows.Err()
}
