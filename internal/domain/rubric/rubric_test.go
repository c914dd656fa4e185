package rubric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/competencias-hub/seguimiento/internal/domain/shared"
)

func TestLevelWeights(t *testing.T) {
	cases := []struct {
		level  Level
		weight int
	}{
		{LevelIncipiente, 0},
		{LevelBasico, 1},
		{LevelSolido, 2},
		{LevelDestacado, 3},
	}

	for _, tc := range cases {
		w, err := Weight(tc.level)
		require.NoError(t, err, "level %s", tc.level)
		assert.Equal(t, tc.weight, w, "level %s", tc.level)
	}

	assert.Equal(t, 3, MaxWeight())
}

func TestWeightRejectsNoAplica(t *testing.T) {
	// "No aplica" is valid on the scale but carries no weight; asking for
	// one is a caller bug.
	_, err := Weight(LevelNoAplica)
	require.Error(t, err)
	assert.True(t, shared.IsInvalidLevel(err))

	_, err = Weight(Level("Excelente"))
	require.Error(t, err)
	assert.True(t, shared.IsInvalidLevel(err))
}

func TestLevelValidity(t *testing.T) {
	for _, l := range Levels() {
		assert.True(t, l.IsValid(), "level %s", l)
	}

	assert.False(t, Level("").IsValid())
	assert.False(t, Level("no aplica").IsValid()) // case sensitive
	assert.False(t, Level("Basico").IsValid())    // accent required

	assert.False(t, LevelNoAplica.Countable())
	assert.True(t, LevelIncipiente.Countable())
	assert.True(t, LevelDestacado.Countable())
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("Sólido")
	require.NoError(t, err)
	assert.Equal(t, LevelSolido, l)

	l, err = ParseLevel("No aplica")
	require.NoError(t, err)
	assert.Equal(t, LevelNoAplica, l)

	_, err = ParseLevel("solido")
	require.Error(t, err)
	assert.True(t, shared.IsInvalidLevel(err))
}

func TestCompetencyConfiguration(t *testing.T) {
	comps := Competencies()
	require.Equal(t, []Competency{"SING0101", "SING0301", "SEG0603"}, comps)

	for _, c := range comps {
		assert.True(t, c.IsValid())
	}
	assert.False(t, Competency("SING9999").IsValid())

	// The returned slice is a copy; mutating it must not corrupt the config.
	comps[0] = "HACKED"
	assert.Equal(t, Competency("SING0101"), Competencies()[0])
}

func TestColumnNameRoundTrip(t *testing.T) {
	assert.Equal(t, "SING0101_E1", ColumnName("SING0101", 1))
	assert.Equal(t, "SEG0603_E5", ColumnName("SEG0603", 5))

	for _, c := range Competencies() {
		for e := 1; e <= Elements; e++ {
			gotC, gotE, err := ParseColumnName(ColumnName(c, e))
			require.NoError(t, err)
			assert.Equal(t, c, gotC)
			assert.Equal(t, e, gotE)
		}
	}
}

func TestParseColumnNameRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "SING0101", "SING0101_E0", "SING0101_E6", "SING9999_E1"} {
		_, _, err := ParseColumnName(name)
		assert.Error(t, err, "column %q", name)
		assert.True(t, shared.IsValidation(err), "column %q", name)
	}
}

func TestActivities(t *testing.T) {
	acts := Activities()
	require.Len(t, acts, 8)
	assert.Equal(t, Activity("A1"), acts[0])
	assert.Equal(t, Activity("A8"), acts[7])

	assert.True(t, Activity("A3").IsValid())
	assert.False(t, Activity("A9").IsValid())
	assert.False(t, Activity("a1").IsValid())
	assert.False(t, Activity("").IsValid())
}

func TestSemaphoreBands(t *testing.T) {
	cases := []struct {
		pct  float64
		band Band
	}{
		{100, BandDestacado},
		{75, BandDestacado}, // lower bound is inclusive
		{74.99, BandSolido},
		{50, BandSolido},
		{49.99, BandBasico},
		{25, BandBasico},
		{24.99, BandIncipiente},
		{0, BandIncipiente},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.band, Semaphore(tc.pct), "percentage %.2f", tc.pct)
	}
}
