package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/competencias-hub/seguimiento/internal/domain/rubric"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// makeRecord builds a record where the named competency gets the given levels
// on elements 1..len(levels) and everything else stays "No aplica".
func makeRecord(t *testing.T, name, group, activity string, c rubric.Competency, levels ...rubric.Level) *Record {
	t.Helper()

	scores := NewScoreSheet()
	for i, l := range levels {
		require.NoError(t, scores.Set(c, i+1, l))
	}

	record, err := NewRecord(NewRecordParams{
		ID:       "rec-" + name + "-" + activity,
		Student:  student.Name(name),
		Group:    student.Group(group),
		Activity: rubric.Activity(activity),
		Scores:   scores,
	})
	require.NoError(t, err)
	return record
}

func TestAchievementPercentageExcludesNoAplica(t *testing.T) {
	// Incipiente(0) + Básico(1) + Sólido(2) + Destacado(3) = 6 points out of
	// 4 countable elements * 3 = 12. The fifth element stays "No aplica" and
	// must not inflate the denominator.
	record := makeRecord(t, "Ana", "3A", "A1", "SING0101",
		rubric.LevelIncipiente, rubric.LevelBasico, rubric.LevelSolido, rubric.LevelDestacado)

	pct := AchievementPercentage([]*Record{record}, "SING0101")
	assert.Equal(t, 50.0, pct)
}

func TestAchievementPercentageAllNoAplica(t *testing.T) {
	// Zero countable elements means "no applicable data", reported as 0.
	record := makeRecord(t, "Ana", "3A", "A1", "SING0101")

	assert.Equal(t, 0.0, AchievementPercentage([]*Record{record}, "SING0101"))
	assert.Equal(t, 0.0, AchievementPercentage(nil, "SING0101"))
}

func TestAchievementPercentagePerCompetency(t *testing.T) {
	record := makeRecord(t, "Ana", "3A", "A1", "SING0101",
		rubric.LevelDestacado, rubric.LevelDestacado)

	// Only the scored competency moves; the others have no countable data.
	assert.Equal(t, 100.0, AchievementPercentage([]*Record{record}, "SING0101"))
	assert.Equal(t, 0.0, AchievementPercentage([]*Record{record}, "SING0301"))
	assert.Equal(t, 0.0, AchievementPercentage([]*Record{record}, "SEG0603"))
}

func TestAchievementPercentageAggregatesRecords(t *testing.T) {
	// Two records: 3/3 and 1/3 on the same competency -> 4/6 = 66.67.
	r1 := makeRecord(t, "Ana", "3A", "A1", "SING0101", rubric.LevelDestacado)
	r2 := makeRecord(t, "Ana", "3A", "A2", "SING0101", rubric.LevelBasico)

	pct := AchievementPercentage([]*Record{r1, r2}, "SING0101")
	assert.Equal(t, 66.67, pct)
}

func TestAchievementPercentageRounding(t *testing.T) {
	// 1/3 = 33.333... rounds to 33.33; 2/3 = 66.666... rounds to 66.67.
	r := makeRecord(t, "Ana", "3A", "A1", "SING0101", rubric.LevelBasico)
	assert.Equal(t, 33.33, AchievementPercentage([]*Record{r}, "SING0101"))

	r = makeRecord(t, "Ana", "3A", "A1", "SING0101", rubric.LevelSolido)
	assert.Equal(t, 66.67, AchievementPercentage([]*Record{r}, "SING0101"))
}

func TestBuildReport(t *testing.T) {
	records := []*Record{
		makeRecord(t, "Ana", "3A", "A1", "SING0101",
			rubric.LevelDestacado, rubric.LevelDestacado, rubric.LevelDestacado),
		makeRecord(t, "Ana", "3A", "A2", "SING0301",
			rubric.LevelBasico, rubric.LevelBasico, rubric.LevelBasico),
	}

	report := BuildReport(records, "3A", "Ana")

	assert.Equal(t, student.Group("3A"), report.Group)
	assert.Equal(t, student.Name("Ana"), report.Student)
	assert.Equal(t, 2, report.RecordCount)
	assert.False(t, report.GeneratedAt.IsZero())

	// One score per competency, in the fixed rubric order.
	require.Len(t, report.Scores, 3)
	assert.Equal(t, rubric.Competency("SING0101"), report.Scores[0].Competency)
	assert.Equal(t, 100.0, report.Scores[0].Percentage)
	assert.Equal(t, rubric.BandDestacado, report.Scores[0].Band)

	assert.Equal(t, rubric.Competency("SING0301"), report.Scores[1].Competency)
	assert.Equal(t, 33.33, report.Scores[1].Percentage)
	assert.Equal(t, rubric.BandBasico, report.Scores[1].Band)

	assert.Equal(t, rubric.Competency("SEG0603"), report.Scores[2].Competency)
	assert.Equal(t, 0.0, report.Scores[2].Percentage)
	assert.Equal(t, rubric.BandIncipiente, report.Scores[2].Band)
}

func TestBuildReportEmpty(t *testing.T) {
	report := BuildReport(nil, "3A", "")

	assert.Equal(t, 0, report.RecordCount)
	require.Len(t, report.Scores, 3)
	for _, score := range report.Scores {
		assert.Equal(t, 0.0, score.Percentage)
		assert.Equal(t, rubric.BandIncipiente, score.Band)
	}
}
