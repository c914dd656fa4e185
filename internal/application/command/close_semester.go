package command

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// CLOSE SEMESTER COMMAND
// Destructive cleanup for the end of a term: wipe everything, retire one
// group, or remove one student. Both tables move together so the evidence
// never references students that no longer exist.
// ══════════════════════════════════════════════════════════════════════════════

// Scope defines how much the cleanup removes.
type Scope string

const (
	// ScopeAll - remove every student and every evidence record.
	ScopeAll Scope = "all"

	// ScopeGroup - remove one group's students and evidence.
	ScopeGroup Scope = "group"

	// ScopeStudent - remove one student and their evidence.
	ScopeStudent Scope = "student"
)

// CloseSemesterCommand contains the data for a cleanup operation.
type CloseSemesterCommand struct {
	// Scope selects what to remove.
	Scope Scope

	// Group is the target group (required for ScopeGroup).
	Group string

	// Student is the target student name (required for ScopeStudent).
	Student string

	// Passphrase is the admin passphrase guarding destructive operations.
	Passphrase string
}

// Validate validates the command.
func (c CloseSemesterCommand) Validate() error {
	switch c.Scope {
	case ScopeAll:
	case ScopeGroup:
		if !student.Group(c.Group).IsValid() {
			return shared.ErrEmptyGroupName
		}
	case ScopeStudent:
		if !student.Name(c.Student).IsValid() {
			return shared.ErrEmptyStudentName
		}
	default:
		return shared.WrapError("command", "CloseSemester", shared.ErrInvalidInput,
			fmt.Sprintf("unknown scope %q", c.Scope), nil)
	}
	return nil
}

// CloseSemesterResult contains the result of a cleanup operation.
type CloseSemesterResult struct {
	// Scope is the scope that was executed.
	Scope Scope

	// ClosedAt is when the cleanup finished.
	ClosedAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// CloseSemesterHandler handles the CloseSemesterCommand.
type CloseSemesterHandler struct {
	students evidence.Lifecycle
	reports  evidence.ReportCache

	// passphraseHash is the bcrypt hash the passphrase is checked against.
	// An empty hash disables the destructive operations entirely.
	passphraseHash string
}

// NewCloseSemesterHandler creates a new CloseSemesterHandler.
// The report cache is optional; pass nil when caching is disabled.
func NewCloseSemesterHandler(
	lifecycle evidence.Lifecycle,
	reports evidence.ReportCache,
	passphraseHash string,
) *CloseSemesterHandler {
	return &CloseSemesterHandler{
		students:       lifecycle,
		reports:        reports,
		passphraseHash: passphraseHash,
	}
}

// Handle executes the close semester command.
func (h *CloseSemesterHandler) Handle(ctx context.Context, cmd CloseSemesterCommand) (*CloseSemesterResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	if err := h.checkPassphrase(cmd.Passphrase); err != nil {
		return nil, err
	}

	switch cmd.Scope {
	case ScopeAll:
		if err := h.students.ResetAll(ctx); err != nil {
			return nil, shared.WrapError("command", "CloseSemester", shared.ErrStorageFailure,
				"failed to reset all data", err)
		}
		if h.reports != nil {
			_ = h.reports.InvalidateAll(ctx)
		}

	case ScopeGroup:
		if err := h.students.DeleteGroup(ctx, student.Group(cmd.Group)); err != nil {
			return nil, shared.WrapError("command", "CloseSemester", shared.ErrStorageFailure,
				"failed to delete group", err)
		}
		if h.reports != nil {
			_ = h.reports.InvalidateGroup(ctx, student.Group(cmd.Group))
		}

	case ScopeStudent:
		if err := h.students.DeleteStudent(ctx, student.Name(cmd.Student)); err != nil {
			return nil, shared.WrapError("command", "CloseSemester", shared.ErrStorageFailure,
				"failed to delete student", err)
		}
		// The student's group is gone with the row, so drop every report.
		if h.reports != nil {
			_ = h.reports.InvalidateAll(ctx)
		}
	}

	return &CloseSemesterResult{
		Scope:    cmd.Scope,
		ClosedAt: time.Now().UTC(),
	}, nil
}

// checkPassphrase compares the submitted passphrase against the stored hash.
func (h *CloseSemesterHandler) checkPassphrase(passphrase string) error {
	if h.passphraseHash == "" {
		return shared.WrapError("command", "CloseSemester", shared.ErrUnauthorized,
			"destructive operations are disabled: no admin passphrase configured", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(h.passphraseHash), []byte(passphrase)); err != nil {
		return shared.ErrBadPassphrase
	}

	return nil
}
