package query

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/rubric"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
	"github.com/competencias-hub/seguimiento/internal/infrastructure/persistence/csvfile"
)

// stubReportCache serves one canned report and records what was stored.
type stubReportCache struct {
	report *evidence.Report
	stored []*evidence.Report
}

func (s *stubReportCache) GetReport(ctx context.Context, group student.Group, name student.Name) (*evidence.Report, error) {
	return s.report, nil
}

func (s *stubReportCache) SetReport(ctx context.Context, report *evidence.Report) error {
	s.stored = append(s.stored, report)
	return nil
}

func (s *stubReportCache) InvalidateGroup(ctx context.Context, group student.Group) error { return nil }
func (s *stubReportCache) InvalidateAll(ctx context.Context) error                        { return nil }

func seedStore(t *testing.T) *csvfile.Store {
	t.Helper()
	ctx := context.Background()

	store, err := csvfile.Open(t.TempDir())
	require.NoError(t, err)

	for _, row := range []struct{ name, group string }{
		{"Ana", "3A"}, {"Beto", "3A"}, {"Carla", "3B"},
	} {
		s, err := student.NewStudent(student.NewStudentParams{
			ID:    uuid.NewString(),
			Name:  student.Name(row.name),
			Group: student.Group(row.group),
		})
		require.NoError(t, err)
		require.NoError(t, store.Students().Register(ctx, s))
	}

	scores := evidence.NewScoreSheet()
	require.NoError(t, scores.Set("SING0101", 1, rubric.LevelDestacado))
	require.NoError(t, scores.Set("SING0101", 2, rubric.LevelDestacado))

	record, err := evidence.NewRecord(evidence.NewRecordParams{
		ID:       uuid.NewString(),
		Student:  "Ana",
		Group:    "3A",
		Activity: "A1",
		Scores:   scores,
	})
	require.NoError(t, err)
	require.NoError(t, store.Evidence().Upsert(ctx, record))

	return store
}

// ─────────────────────────────────────────────────────────────────────────────
// Roster queries
// ─────────────────────────────────────────────────────────────────────────────

func TestListGroups(t *testing.T) {
	ctx := context.Background()
	handler := NewListGroupsHandler(seedStore(t).Students())

	result, err := handler.Handle(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"3A", "3B"}, result.Groups)
}

func TestListStudents(t *testing.T) {
	ctx := context.Background()
	handler := NewListStudentsHandler(seedStore(t).Students())

	result, err := handler.Handle(ctx, ListStudentsQuery{Group: "3A"})
	require.NoError(t, err)

	assert.Equal(t, "3A", result.Group)
	require.Len(t, result.Students, 2)
	assert.Equal(t, "Ana", result.Students[0].Name)
	assert.Equal(t, "Beto", result.Students[1].Name)

	// Unknown group yields an empty roster, not an error.
	result, err = handler.Handle(ctx, ListStudentsQuery{Group: "9Z"})
	require.NoError(t, err)
	assert.Empty(t, result.Students)

	_, err = handler.Handle(ctx, ListStudentsQuery{Group: "  "})
	assert.True(t, shared.IsValidation(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Achievement
// ─────────────────────────────────────────────────────────────────────────────

func TestGetAchievementGroupReport(t *testing.T) {
	ctx := context.Background()
	handler := NewGetAchievementHandler(seedStore(t).Evidence(), nil)

	result, err := handler.Handle(ctx, GetAchievementQuery{Group: "3A"})
	require.NoError(t, err)

	assert.False(t, result.FromCache)
	assert.Equal(t, 1, result.Report.RecordCount)

	require.Len(t, result.Report.Scores, 3)
	assert.Equal(t, 100.0, result.Report.Scores[0].Percentage)
	assert.Equal(t, rubric.BandDestacado, result.Report.Scores[0].Band)
	assert.Equal(t, 0.0, result.Report.Scores[1].Percentage)
}

func TestGetAchievementStudentFilter(t *testing.T) {
	ctx := context.Background()
	handler := NewGetAchievementHandler(seedStore(t).Evidence(), nil)

	// Beto has no evidence yet: the report exists with zero records.
	result, err := handler.Handle(ctx, GetAchievementQuery{Group: "3A", Student: "Beto"})
	require.NoError(t, err)

	assert.Equal(t, 0, result.Report.RecordCount)
	for _, score := range result.Report.Scores {
		assert.Equal(t, 0.0, score.Percentage)
	}
}

func TestGetAchievementRequiresGroup(t *testing.T) {
	ctx := context.Background()
	handler := NewGetAchievementHandler(seedStore(t).Evidence(), nil)

	_, err := handler.Handle(ctx, GetAchievementQuery{})
	assert.True(t, shared.IsValidation(err))
}

func TestGetAchievementUsesCache(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	cached := evidence.BuildReport(nil, "3A", "")
	cache := &stubReportCache{report: cached}

	handler := NewGetAchievementHandler(store.Evidence(), cache)

	result, err := handler.Handle(ctx, GetAchievementQuery{Group: "3A"})
	require.NoError(t, err)
	assert.True(t, result.FromCache)
	assert.Same(t, cached, result.Report)
	assert.Empty(t, cache.stored)
}

func TestGetAchievementStoresOnMiss(t *testing.T) {
	ctx := context.Background()
	store := seedStore(t)

	cache := &stubReportCache{}
	handler := NewGetAchievementHandler(store.Evidence(), cache)

	result, err := handler.Handle(ctx, GetAchievementQuery{Group: "3A"})
	require.NoError(t, err)
	assert.False(t, result.FromCache)

	require.Len(t, cache.stored, 1)
	assert.Equal(t, result.Report, cache.stored[0])
}

// ─────────────────────────────────────────────────────────────────────────────
// Export
// ─────────────────────────────────────────────────────────────────────────────

func TestExportEvidence(t *testing.T) {
	ctx := context.Background()
	handler := NewExportEvidenceHandler(seedStore(t).Evidence(), csvfile.MarshalRecords)

	result, err := handler.Handle(ctx, ExportEvidenceQuery{})
	require.NoError(t, err)

	assert.Equal(t, "actividades.csv", result.Filename)
	assert.Equal(t, 1, result.RecordCount)

	lines := bytes.Split(bytes.TrimRight(result.Data, "\n"), []byte("\n"))
	require.Len(t, lines, 2)
	assert.True(t, bytes.HasPrefix(lines[0], []byte("Estudiante,Grupo,Actividad,SING0101_E1")))
	assert.True(t, bytes.HasPrefix(lines[1], []byte("Ana,3A,A1,Destacado,Destacado,No aplica")))
}

func TestExportEvidenceFiltered(t *testing.T) {
	ctx := context.Background()
	handler := NewExportEvidenceHandler(seedStore(t).Evidence(), csvfile.MarshalRecords)

	result, err := handler.Handle(ctx, ExportEvidenceQuery{Group: "3B"})
	require.NoError(t, err)

	// No 3B evidence: header only.
	assert.Equal(t, 0, result.RecordCount)
	lines := bytes.Split(bytes.TrimRight(result.Data, "\n"), []byte("\n"))
	assert.Len(t, lines, 1)
}
