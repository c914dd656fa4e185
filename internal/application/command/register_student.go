// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER STUDENT COMMAND
// Adds a student to the semester roster. Names are unique across the whole
// registry, not per group, so every later by-name operation is unambiguous.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentCommand contains the data to register a student.
type RegisterStudentCommand struct {
	// Name is the student's display name, as typed by the instructor.
	Name string

	// Group is the class group the student belongs to.
	Group string
}

// Validate validates the command.
func (c RegisterStudentCommand) Validate() error {
	if !student.Name(c.Name).IsValid() {
		return shared.ErrEmptyStudentName
	}
	if !student.Group(c.Group).IsValid() {
		return shared.ErrEmptyGroupName
	}
	return nil
}

// RegisterStudentResult contains the result of registering a student.
type RegisterStudentResult struct {
	// Student is the newly registered student.
	Student *student.Student

	// RegisteredAt is when the registration happened.
	RegisteredAt time.Time
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// RegisterStudentHandler handles the RegisterStudentCommand.
type RegisterStudentHandler struct {
	students student.Repository
}

// NewRegisterStudentHandler creates a new RegisterStudentHandler.
func NewRegisterStudentHandler(students student.Repository) *RegisterStudentHandler {
	return &RegisterStudentHandler{students: students}
}

// Handle executes the register student command.
func (h *RegisterStudentHandler) Handle(ctx context.Context, cmd RegisterStudentCommand) (*RegisterStudentResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	s, err := student.NewStudent(student.NewStudentParams{
		ID:    uuid.NewString(),
		Name:  student.Name(cmd.Name),
		Group: student.Group(cmd.Group),
	})
	if err != nil {
		return nil, err
	}

	if err := h.students.Register(ctx, s); err != nil {
		if errors.Is(err, shared.ErrStudentAlreadyExists) {
			return nil, shared.ErrStudentAlreadyExists
		}
		return nil, shared.WrapError("command", "RegisterStudent", shared.ErrStorageFailure,
			"failed to register student", err)
	}

	return &RegisterStudentResult{
		Student:      s,
		RegisteredAt: s.RegisteredAt,
	}, nil
}
