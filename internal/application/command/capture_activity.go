package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/rubric"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CAPTURE ACTIVITY COMMAND
// Saves the rubric levels of one student on one activity. Re-capturing the
// same (student, group, activity) replaces the previous row whole; partial
// updates do not exist at this level.
// ══════════════════════════════════════════════════════════════════════════════

// CaptureActivityCommand contains the data to capture an activity evaluation.
type CaptureActivityCommand struct {
	// Student is the name of the evaluated student. Must be registered.
	Student string

	// Group is the student's class group.
	Group string

	// Activity is the evaluated activity ("A1".."A8").
	Activity string

	// Scores maps interchange column names ("SING0101_E1") to level labels.
	// Pairs not present stay at "No aplica", which is what an untouched
	// selector in the capture form submits.
	Scores map[string]string
}

// Validate validates the command.
func (c CaptureActivityCommand) Validate() error {
	if !student.Name(c.Student).IsValid() {
		return shared.ErrEmptyStudentName
	}
	if !student.Group(c.Group).IsValid() {
		return shared.ErrEmptyGroupName
	}
	if !rubric.Activity(c.Activity).IsValid() {
		return shared.ErrUnknownActivity
	}
	return nil
}

// CaptureActivityResult contains the result of capturing an activity.
type CaptureActivityResult struct {
	// Record is the evidence as stored.
	Record *evidence.Record

	// CapturedAt is when the capture was saved.
	CapturedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CaptureActivityHandler handles the CaptureActivityCommand.
type CaptureActivityHandler struct {
	students student.Repository
	store    evidence.Store
	reports  evidence.ReportCache
}

// NewCaptureActivityHandler creates a new CaptureActivityHandler.
// The report cache is optional; pass nil when caching is disabled.
func NewCaptureActivityHandler(
	students student.Repository,
	store evidence.Store,
	reports evidence.ReportCache,
) *CaptureActivityHandler {
	return &CaptureActivityHandler{
		students: students,
		store:    store,
		reports:  reports,
	}
}

// Handle executes the capture activity command.
func (h *CaptureActivityHandler) Handle(ctx context.Context, cmd CaptureActivityCommand) (*CaptureActivityResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	// Evidence only exists for registered students.
	s, err := h.students.GetByName(ctx, student.Name(cmd.Student))
	if err != nil {
		return nil, err
	}
	if s.Group != student.Group(cmd.Group) {
		return nil, shared.WrapError("command", "CaptureActivity", shared.ErrValidation,
			"student is registered in another group", nil)
	}

	scores, err := buildScoreSheet(cmd.Scores)
	if err != nil {
		return nil, err
	}

	record, err := evidence.NewRecord(evidence.NewRecordParams{
		ID:       uuid.NewString(),
		Student:  student.Name(cmd.Student),
		Group:    student.Group(cmd.Group),
		Activity: rubric.Activity(cmd.Activity),
		Scores:   scores,
	})
	if err != nil {
		return nil, err
	}

	if err := h.store.Upsert(ctx, record); err != nil {
		return nil, shared.WrapError("command", "CaptureActivity", shared.ErrStorageFailure,
			"failed to save evidence", err)
	}

	// Cached reports for the group are now stale. Best effort: a failed
	// invalidation only delays the refresh until the TTL expires.
	if h.reports != nil {
		_ = h.reports.InvalidateGroup(ctx, record.Group)
	}

	return &CaptureActivityResult{
		Record:     record,
		CapturedAt: record.CapturedAt,
	}, nil
}

// buildScoreSheet seeds a full sheet and applies the submitted levels on top.
func buildScoreSheet(scores map[string]string) (evidence.ScoreSheet, error) {
	sheet := evidence.NewScoreSheet()
	for column, raw := range scores {
		c, e, err := rubric.ParseColumnName(column)
		if err != nil {
			return nil, err
		}
		level, err := rubric.ParseLevel(raw)
		if err != nil {
			return nil, err
		}
		if err := sheet.Set(c, e, level); err != nil {
			return nil, err
		}
	}
	return sheet, nil
}
