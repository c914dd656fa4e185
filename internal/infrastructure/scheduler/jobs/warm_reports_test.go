package jobs

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
	"github.com/competencias-hub/seguimiento/internal/infrastructure/persistence/csvfile"
	"github.com/competencias-hub/seguimiento/pkg/logger"
)

type captureCache struct {
	stored []*evidence.Report
}

func (c *captureCache) GetReport(ctx context.Context, group student.Group, name student.Name) (*evidence.Report, error) {
	return nil, nil
}

func (c *captureCache) SetReport(ctx context.Context, report *evidence.Report) error {
	c.stored = append(c.stored, report)
	return nil
}

func (c *captureCache) InvalidateGroup(ctx context.Context, group student.Group) error { return nil }
func (c *captureCache) InvalidateAll(ctx context.Context) error                        { return nil }

func TestWarmReportsCachesOneReportPerGroup(t *testing.T) {
	ctx := context.Background()

	store, err := csvfile.Open(t.TempDir())
	require.NoError(t, err)

	for _, row := range []struct{ name, group string }{
		{"Ana", "3A"}, {"Beto", "3B"}, {"Carla", "3B"},
	} {
		s, err := student.NewStudent(student.NewStudentParams{
			ID:    uuid.NewString(),
			Name:  student.Name(row.name),
			Group: student.Group(row.group),
		})
		require.NoError(t, err)
		require.NoError(t, store.Students().Register(ctx, s))
	}

	cache := &captureCache{}
	job := NewWarmReports(store.Students(), store.Evidence(), cache, logger.Default())

	require.NoError(t, job.Run(ctx))

	require.Len(t, cache.stored, 2)
	assert.Equal(t, student.Group("3A"), cache.stored[0].Group)
	assert.Equal(t, student.Group("3B"), cache.stored[1].Group)
	for _, report := range cache.stored {
		assert.Empty(t, report.Student)
		assert.Len(t, report.Scores, 3)
	}
}

func TestWarmReportsEmptyRegistry(t *testing.T) {
	ctx := context.Background()

	store, err := csvfile.Open(t.TempDir())
	require.NoError(t, err)

	cache := &captureCache{}
	job := NewWarmReports(store.Students(), store.Evidence(), cache, logger.Default())

	require.NoError(t, job.Run(ctx))
	assert.Empty(t, cache.stored)
}
