package query

import (
	"context"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// EXPORT EVIDENCE QUERY
// Renders stored evidence in the CSV interchange format, regardless of which
// backend holds it. The output of an unfiltered export can seed a fresh
// flat-file data directory.
// ══════════════════════════════════════════════════════════════════════════════

// RecordMarshaler renders evidence records as CSV interchange bytes.
type RecordMarshaler func(records []*evidence.Record) ([]byte, error)

// ExportEvidenceQuery contains the parameters for an export.
type ExportEvidenceQuery struct {
	// Group narrows the export to one group. Empty exports everything.
	Group string

	// Student narrows the export to one student. Empty means all students.
	Student string
}

// ExportEvidenceResult contains the rendered export.
type ExportEvidenceResult struct {
	// Filename is the interchange file name the bytes should be saved as.
	Filename string

	// Data is the CSV content, header row included.
	Data []byte

	// RecordCount is the number of exported rows (header excluded).
	RecordCount int
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// ExportEvidenceHandler handles the ExportEvidenceQuery.
type ExportEvidenceHandler struct {
	store   evidence.Store
	marshal RecordMarshaler
}

// NewExportEvidenceHandler creates a new ExportEvidenceHandler.
func NewExportEvidenceHandler(store evidence.Store, marshal RecordMarshaler) *ExportEvidenceHandler {
	return &ExportEvidenceHandler{store: store, marshal: marshal}
}

// Handle executes the export query.
func (h *ExportEvidenceHandler) Handle(ctx context.Context, query ExportEvidenceQuery) (*ExportEvidenceResult, error) {
	records, err := h.store.Query(ctx, evidence.Filter{
		Group:   student.Group(query.Group),
		Student: student.Name(query.Student),
	})
	if err != nil {
		return nil, shared.WrapError("query", "ExportEvidence", shared.ErrStorageFailure,
			"failed to query evidence", err)
	}

	data, err := h.marshal(records)
	if err != nil {
		return nil, err
	}

	return &ExportEvidenceResult{
		Filename:    "actividades.csv",
		Data:        data,
		RecordCount: len(records),
	}, nil
}
