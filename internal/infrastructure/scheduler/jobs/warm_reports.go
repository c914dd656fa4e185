// Package jobs contains the background jobs run by the scheduler.
package jobs

import (
	"context"
	"fmt"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
	"github.com/competencias-hub/seguimiento/pkg/logger"
)

// WarmReports rebuilds the group-level achievement report of every known group
// and stores it in the cache, so the first dashboard request after a TTL
// expiry does not pay the aggregation cost. Per-student reports are left to
// demand: warming every (group, student) pair would churn the cache for
// entries that are rarely opened.
type WarmReports struct {
	students student.Repository
	store    evidence.Store
	reports  evidence.ReportCache
	log      *logger.Logger
}

// NewWarmReports creates the cache warming job.
func NewWarmReports(
	students student.Repository,
	store evidence.Store,
	reports evidence.ReportCache,
	log *logger.Logger,
) *WarmReports {
	return &WarmReports{
		students: students,
		store:    store,
		reports:  reports,
		log:      log,
	}
}

// Name returns the unique name of the job.
func (j *WarmReports) Name() string { return "warm-reports" }

// Run rebuilds and caches one report per group.
func (j *WarmReports) Run(ctx context.Context) error {
	groups, err := j.students.ListGroups(ctx)
	if err != nil {
		return fmt.Errorf("failed to list groups: %w", err)
	}

	warmed := 0
	for _, group := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}

		records, err := j.store.Query(ctx, evidence.Filter{Group: group})
		if err != nil {
			return fmt.Errorf("failed to query evidence for group %s: %w", group, err)
		}

		report := evidence.BuildReport(records, group, "")
		if err := j.reports.SetReport(ctx, report); err != nil {
			// One cold group does not justify aborting the sweep.
			j.log.Warn("failed to cache report",
				logger.String("group", group.String()),
				logger.Err(err),
			)
			continue
		}
		warmed++
	}

	j.log.Debug("report cache warmed",
		logger.Int("groups", len(groups)),
		logger.Int("warmed", warmed),
	)
	return nil
}
