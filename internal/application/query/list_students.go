package query

import (
	"context"
	"time"

	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER QUERIES
// Feed the dashboard selectors: which groups exist, and who is in a group.
// ══════════════════════════════════════════════════════════════════════════════

// StudentDTO is the presentation shape of a roster entry.
type StudentDTO struct {
	// Name is the student's display name.
	Name string `json:"name"`

	// Group is the student's class group.
	Group string `json:"group"`

	// RegisteredAt is when the student joined the roster.
	RegisteredAt time.Time `json:"registered_at"`
}

// ─────────────────────────────────────────────────────────────────────────────
// List groups
// ─────────────────────────────────────────────────────────────────────────────

// ListGroupsResult contains the distinct groups in the registry.
type ListGroupsResult struct {
	// Groups is sorted lexicographically.
	Groups []string `json:"groups"`
}

// ListGroupsHandler handles group listing.
type ListGroupsHandler struct {
	students student.Repository
}

// NewListGroupsHandler creates a new ListGroupsHandler.
func NewListGroupsHandler(students student.Repository) *ListGroupsHandler {
	return &ListGroupsHandler{students: students}
}

// Handle returns the distinct groups. An empty registry yields an empty list.
func (h *ListGroupsHandler) Handle(ctx context.Context) (*ListGroupsResult, error) {
	groups, err := h.students.ListGroups(ctx)
	if err != nil {
		return nil, shared.WrapError("query", "ListGroups", shared.ErrStorageFailure,
			"failed to list groups", err)
	}

	out := make([]string, len(groups))
	for i, g := range groups {
		out[i] = g.String()
	}

	return &ListGroupsResult{Groups: out}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// List students of a group
// ─────────────────────────────────────────────────────────────────────────────

// ListStudentsQuery contains the parameters for a roster listing.
type ListStudentsQuery struct {
	// Group is the class group to list. Required.
	Group string
}

// Validate validates the query.
func (q ListStudentsQuery) Validate() error {
	if !student.Group(q.Group).IsValid() {
		return shared.ErrEmptyGroupName
	}
	return nil
}

// ListStudentsResult contains the group's roster.
type ListStudentsResult struct {
	// Group is the group that was listed.
	Group string `json:"group"`

	// Students is in registration order.
	Students []StudentDTO `json:"students"`
}

// ListStudentsHandler handles roster listing.
type ListStudentsHandler struct {
	students student.Repository
}

// NewListStudentsHandler creates a new ListStudentsHandler.
func NewListStudentsHandler(students student.Repository) *ListStudentsHandler {
	return &ListStudentsHandler{students: students}
}

// Handle returns the group's students. An unknown group yields an empty list,
// indistinguishable from a registered group with no members.
func (h *ListStudentsHandler) Handle(ctx context.Context, query ListStudentsQuery) (*ListStudentsResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	students, err := h.students.ListStudents(ctx, student.Group(query.Group))
	if err != nil {
		return nil, shared.WrapError("query", "ListStudents", shared.ErrStorageFailure,
			"failed to list students", err)
	}

	dtos := make([]StudentDTO, len(students))
	for i, s := range students {
		dtos[i] = StudentDTO{
			Name:         s.Name.String(),
			Group:        s.Group.String(),
			RegisteredAt: s.RegisteredAt,
		}
	}

	return &ListStudentsResult{Group: query.Group, Students: dtos}, nil
}
