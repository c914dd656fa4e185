// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
// Each query is a self-contained use case with its own request/response types.
package query

import (
	"context"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET ACHIEVEMENT QUERY
// Aggregates the stored evidence of a group (or one of its students) into a
// per-competency achievement report: percentage plus semaphore band.
// ══════════════════════════════════════════════════════════════════════════════

// GetAchievementQuery contains the parameters for an achievement report.
type GetAchievementQuery struct {
	// Group is the class group to report on. Required.
	Group string

	// Student narrows the report to one student. Empty means the whole group.
	Student string
}

// Validate validates the query.
func (q GetAchievementQuery) Validate() error {
	if !student.Group(q.Group).IsValid() {
		return shared.ErrEmptyGroupName
	}
	return nil
}

// GetAchievementResult contains the achievement report.
type GetAchievementResult struct {
	// Report is the aggregated per-competency achievement.
	Report *evidence.Report `json:"report"`

	// FromCache indicates whether the report came from the cache.
	FromCache bool `json:"from_cache"`
}

// ══════════════════════════════════════════════════════════════════════════════
// HANDLER
// ══════════════════════════════════════════════════════════════════════════════

// GetAchievementHandler handles the GetAchievementQuery.
type GetAchievementHandler struct {
	store   evidence.Store
	reports evidence.ReportCache
}

// NewGetAchievementHandler creates a new GetAchievementHandler.
// The report cache is optional; pass nil when caching is disabled.
func NewGetAchievementHandler(store evidence.Store, reports evidence.ReportCache) *GetAchievementHandler {
	return &GetAchievementHandler{store: store, reports: reports}
}

// Handle executes the achievement query.
func (h *GetAchievementHandler) Handle(ctx context.Context, query GetAchievementQuery) (*GetAchievementResult, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	group := student.Group(query.Group)
	name := student.Name(query.Student)

	if cached := h.tryGetFromCache(ctx, group, name); cached != nil {
		return &GetAchievementResult{Report: cached, FromCache: true}, nil
	}

	records, err := h.store.Query(ctx, evidence.Filter{Group: group, Student: name})
	if err != nil {
		return nil, shared.WrapError("query", "GetAchievement", shared.ErrStorageFailure,
			"failed to query evidence", err)
	}

	report := evidence.BuildReport(records, group, name)

	// Best effort: a report that fails to cache is still a valid report.
	if h.reports != nil {
		_ = h.reports.SetReport(ctx, report)
	}

	return &GetAchievementResult{Report: report}, nil
}

// tryGetFromCache returns the cached report, or nil on miss or cache error.
func (h *GetAchievementHandler) tryGetFromCache(ctx context.Context, group student.Group, name student.Name) *evidence.Report {
	if h.reports == nil {
		return nil
	}

	report, err := h.reports.GetReport(ctx, group, name)
	if err != nil {
		return nil
	}
	return report
}
