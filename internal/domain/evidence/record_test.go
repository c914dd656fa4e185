package evidence

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/competencias-hub/seguimiento/internal/domain/rubric"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
)

func TestNewScoreSheetSeedsAllPairs(t *testing.T) {
	sheet := NewScoreSheet()

	for _, c := range rubric.Competencies() {
		for e := 1; e <= rubric.Elements; e++ {
			level, err := sheet.Level(c, e)
			require.NoError(t, err)
			assert.Equal(t, rubric.LevelNoAplica, level)
		}
	}

	assert.NoError(t, sheet.Validate())
}

func TestScoreSheetSet(t *testing.T) {
	sheet := NewScoreSheet()

	require.NoError(t, sheet.Set("SING0101", 1, rubric.LevelDestacado))
	level, err := sheet.Level("SING0101", 1)
	require.NoError(t, err)
	assert.Equal(t, rubric.LevelDestacado, level)

	// Unknown competency
	err = sheet.Set("SING9999", 1, rubric.LevelBasico)
	assert.True(t, shared.IsValidation(err))

	// Element outside 1..5
	err = sheet.Set("SING0101", 0, rubric.LevelBasico)
	assert.True(t, shared.IsValidation(err))
	err = sheet.Set("SING0101", 6, rubric.LevelBasico)
	assert.True(t, shared.IsValidation(err))

	// Level outside the scale
	err = sheet.Set("SING0101", 2, "Regular")
	assert.True(t, shared.IsInvalidLevel(err))
}

func TestScoreSheetValidateRejectsHoles(t *testing.T) {
	sheet := NewScoreSheet()
	delete(sheet["SEG0603"], 3)

	err := sheet.Validate()
	require.Error(t, err)
	assert.True(t, shared.IsInvalidLevel(err))
}

func TestScoreSheetCloneIsIndependent(t *testing.T) {
	sheet := NewScoreSheet()
	require.NoError(t, sheet.Set("SING0301", 2, rubric.LevelSolido))

	clone := sheet.Clone()
	require.NoError(t, clone.Set("SING0301", 2, rubric.LevelIncipiente))

	level, err := sheet.Level("SING0301", 2)
	require.NoError(t, err)
	assert.Equal(t, rubric.LevelSolido, level)
}

func TestNewRecord(t *testing.T) {
	record, err := NewRecord(NewRecordParams{
		ID:       "rec-1",
		Student:  "Ana Torres",
		Group:    "3A",
		Activity: "A1",
	})
	require.NoError(t, err)

	assert.Equal(t, "rec-1", record.ID)
	assert.False(t, record.CapturedAt.IsZero())

	// Nil scores seed a full "No aplica" sheet.
	require.NoError(t, record.Scores.Validate())
	level, err := record.Scores.Level("SING0101", 1)
	require.NoError(t, err)
	assert.Equal(t, rubric.LevelNoAplica, level)
}

func TestNewRecordValidation(t *testing.T) {
	base := NewRecordParams{
		ID:       "rec-1",
		Student:  "Ana Torres",
		Group:    "3A",
		Activity: "A1",
	}

	params := base
	params.ID = ""
	_, err := NewRecord(params)
	assert.True(t, shared.IsValidation(err))

	params = base
	params.Student = "   "
	_, err = NewRecord(params)
	assert.True(t, shared.IsValidation(err))

	params = base
	params.Group = ""
	_, err = NewRecord(params)
	assert.True(t, shared.IsValidation(err))

	params = base
	params.Activity = "A99"
	_, err = NewRecord(params)
	assert.True(t, shared.IsValidation(err))

	// Incomplete sheet
	params = base
	broken := NewScoreSheet()
	delete(broken["SING0101"], 5)
	params.Scores = broken
	_, err = NewRecord(params)
	assert.True(t, shared.IsInvalidLevel(err))
}

func TestNewRecordClonesScores(t *testing.T) {
	scores := NewScoreSheet()
	require.NoError(t, scores.Set("SING0101", 1, rubric.LevelBasico))

	record, err := NewRecord(NewRecordParams{
		ID:       "rec-1",
		Student:  "Ana Torres",
		Group:    "3A",
		Activity: "A2",
		Scores:   scores,
	})
	require.NoError(t, err)

	// Mutating the input sheet after construction must not leak in.
	require.NoError(t, scores.Set("SING0101", 1, rubric.LevelDestacado))
	level, err := record.Scores.Level("SING0101", 1)
	require.NoError(t, err)
	assert.Equal(t, rubric.LevelBasico, level)
}

func TestRecordKey(t *testing.T) {
	record, err := NewRecord(NewRecordParams{
		ID:       "rec-1",
		Student:  "Ana Torres",
		Group:    "3A",
		Activity: "A4",
	})
	require.NoError(t, err)

	key := record.Key()
	assert.Equal(t, Key{Student: "Ana Torres", Group: "3A", Activity: "A4"}, key)

	// Same student and activity in another group is a different identity.
	other := *record
	other.Group = "3B"
	assert.NotEqual(t, key, other.Key())
}
