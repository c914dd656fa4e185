package csvfile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/competencias-hub/seguimiento/internal/domain/evidence"
	"github.com/competencias-hub/seguimiento/internal/domain/rubric"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

func newStudent(t *testing.T, name, group string) *student.Student {
	t.Helper()
	s, err := student.NewStudent(student.NewStudentParams{
		ID:    uuid.NewString(),
		Name:  student.Name(name),
		Group: student.Group(group),
	})
	require.NoError(t, err)
	return s
}

func newRecord(t *testing.T, name, group, activity string) *evidence.Record {
	t.Helper()

	scores := evidence.NewScoreSheet()
	require.NoError(t, scores.Set("SING0101", 1, rubric.LevelSolido))

	r, err := evidence.NewRecord(evidence.NewRecordParams{
		ID:       uuid.NewString(),
		Student:  student.Name(name),
		Group:    student.Group(group),
		Activity: rubric.Activity(activity),
		Scores:   scores,
	})
	require.NoError(t, err)
	return r
}

func TestOpenEmptyDirectory(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()

	n, err := store.Students().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = store.Evidence().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestOpenRequiresDirectory(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

func TestRegisterAndGet(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	repo := store.Students()

	require.NoError(t, repo.Register(ctx, newStudent(t, "Ana Torres", "3A")))

	got, err := repo.GetByName(ctx, "Ana Torres")
	require.NoError(t, err)
	assert.Equal(t, student.Group("3A"), got.Group)

	_, err = repo.GetByName(ctx, "Nadie")
	assert.True(t, shared.IsNotFound(err))
}

func TestRegisterRejectsDuplicateName(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	repo := store.Students()

	require.NoError(t, repo.Register(ctx, newStudent(t, "Ana Torres", "3A")))

	// Same name in another group is still a duplicate: names are the key
	// that evidence rows reference.
	err = repo.Register(ctx, newStudent(t, "Ana Torres", "3B"))
	assert.True(t, shared.IsAlreadyExists(err))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestListGroupsSortedDistinct(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	repo := store.Students()

	require.NoError(t, repo.Register(ctx, newStudent(t, "Carla", "3B")))
	require.NoError(t, repo.Register(ctx, newStudent(t, "Ana", "3A")))
	require.NoError(t, repo.Register(ctx, newStudent(t, "Beto", "3B")))

	groups, err := repo.ListGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Group{"3A", "3B"}, groups)
}

func TestListStudentsRegistrationOrder(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	repo := store.Students()

	require.NoError(t, repo.Register(ctx, newStudent(t, "Carla", "3A")))
	require.NoError(t, repo.Register(ctx, newStudent(t, "Ana", "3A")))
	require.NoError(t, repo.Register(ctx, newStudent(t, "Beto", "3B")))

	students, err := repo.ListStudents(ctx, "3A")
	require.NoError(t, err)
	require.Len(t, students, 2)
	assert.Equal(t, student.Name("Carla"), students[0].Name)
	assert.Equal(t, student.Name("Ana"), students[1].Name)

	// Unknown group yields an empty list, not an error.
	students, err = repo.ListStudents(ctx, "9Z")
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestUpsertReplacesByKey(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	ev := store.Evidence()

	first := newRecord(t, "Ana", "3A", "A1")
	require.NoError(t, ev.Upsert(ctx, first))

	// Same key with different scores replaces the row whole.
	second := newRecord(t, "Ana", "3A", "A1")
	require.NoError(t, second.Scores.Set("SEG0603", 5, rubric.LevelDestacado))
	require.NoError(t, ev.Upsert(ctx, second))

	records, err := ev.Query(ctx, evidence.Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)

	level, err := records[0].Scores.Level("SEG0603", 5)
	require.NoError(t, err)
	assert.Equal(t, rubric.LevelDestacado, level)

	// A different activity is a new row.
	require.NoError(t, ev.Upsert(ctx, newRecord(t, "Ana", "3A", "A2")))
	n, err := ev.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestUpsertPreservesInsertionOrder(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	ev := store.Evidence()

	require.NoError(t, ev.Upsert(ctx, newRecord(t, "Ana", "3A", "A1")))
	require.NoError(t, ev.Upsert(ctx, newRecord(t, "Beto", "3A", "A1")))

	// Re-capturing the first row must keep its original position.
	require.NoError(t, ev.Upsert(ctx, newRecord(t, "Ana", "3A", "A1")))

	records, err := ev.Query(ctx, evidence.Filter{})
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, student.Name("Ana"), records[0].Student)
	assert.Equal(t, student.Name("Beto"), records[1].Student)
}

func TestQueryFilters(t *testing.T) {
	store, err := Open(t.TempDir())
	require.NoError(t, err)

	ctx := context.Background()
	ev := store.Evidence()

	require.NoError(t, ev.Upsert(ctx, newRecord(t, "Ana", "3A", "A1")))
	require.NoError(t, ev.Upsert(ctx, newRecord(t, "Ana", "3A", "A2")))
	require.NoError(t, ev.Upsert(ctx, newRecord(t, "Beto", "3B", "A1")))

	records, err := ev.Query(ctx, evidence.Filter{Group: "3A"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = ev.Query(ctx, evidence.Filter{Group: "3A", Student: "Ana"})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	records, err = ev.Query(ctx, evidence.Filter{Student: "Beto"})
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = ev.Query(ctx, evidence.Filter{Group: "9Z"})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPersistenceRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, store.Students().Register(ctx, newStudent(t, "Ana Torres", "3A")))
	require.NoError(t, store.Evidence().Upsert(ctx, newRecord(t, "Ana Torres", "3A", "A3")))

	// A second open against the same directory sees the flushed state.
	reopened, err := Open(dir)
	require.NoError(t, err)

	got, err := reopened.Students().GetByName(ctx, "Ana Torres")
	require.NoError(t, err)
	assert.Equal(t, student.Group("3A"), got.Group)

	records, err := reopened.Evidence().Query(ctx, evidence.Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, rubric.Activity("A3"), records[0].Activity)

	level, err := records[0].Scores.Level("SING0101", 1)
	require.NoError(t, err)
	assert.Equal(t, rubric.LevelSolido, level)

	// Untouched pairs survive as "No aplica".
	level, err = records[0].Scores.Level("SING0301", 4)
	require.NoError(t, err)
	assert.Equal(t, rubric.LevelNoAplica, level)
}

func TestMarshalRecordsMatchesFlushedFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Evidence().Upsert(ctx, newRecord(t, "Ana", "3A", "A1")))

	records, err := store.Evidence().Query(ctx, evidence.Filter{})
	require.NoError(t, err)

	exported, err := MarshalRecords(records)
	require.NoError(t, err)

	onDisk, err := os.ReadFile(filepath.Join(dir, "actividades.csv"))
	require.NoError(t, err)
	assert.Equal(t, onDisk, exported)
}

func TestClearRemovesBackingFile(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, store.Students().Register(ctx, newStudent(t, "Ana", "3A")))

	require.NoError(t, store.Students().Clear(ctx))

	_, err = os.Stat(filepath.Join(dir, "estudiantes.csv"))
	assert.True(t, os.IsNotExist(err))

	n, err := store.Students().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)
}

func TestLoadRejectsCorruptTable(t *testing.T) {
	dir := t.TempDir()

	// A file with the wrong header must fail loudly, not load half a table.
	path := filepath.Join(dir, "estudiantes.csv")
	require.NoError(t, os.WriteFile(path, []byte("Nombre,Clase\nAna,3A\n"), 0o644))

	_, err := Open(dir)
	require.Error(t, err)
	assert.True(t, shared.IsValidation(err))
}

// ─────────────────────────────────────────────────────────────────────────────
// Lifecycle
// ─────────────────────────────────────────────────────────────────────────────

func seedLifecycle(t *testing.T, dir string) *Store {
	t.Helper()
	ctx := context.Background()

	store, err := Open(dir)
	require.NoError(t, err)

	require.NoError(t, store.Students().Register(ctx, newStudent(t, "Ana", "3A")))
	require.NoError(t, store.Students().Register(ctx, newStudent(t, "Beto", "3A")))
	require.NoError(t, store.Students().Register(ctx, newStudent(t, "Carla", "3B")))

	require.NoError(t, store.Evidence().Upsert(ctx, newRecord(t, "Ana", "3A", "A1")))
	require.NoError(t, store.Evidence().Upsert(ctx, newRecord(t, "Beto", "3A", "A1")))
	require.NoError(t, store.Evidence().Upsert(ctx, newRecord(t, "Carla", "3B", "A2")))

	return store
}

func TestLifecycleResetAll(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	store := seedLifecycle(t, dir)
	require.NoError(t, store.Lifecycle().ResetAll(ctx))

	n, err := store.Students().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	n, err = store.Evidence().Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = os.Stat(filepath.Join(dir, "estudiantes.csv"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, "actividades.csv"))
	assert.True(t, os.IsNotExist(err))
}

func TestLifecycleDeleteGroup(t *testing.T) {
	ctx := context.Background()
	store := seedLifecycle(t, t.TempDir())

	require.NoError(t, store.Lifecycle().DeleteGroup(ctx, "3A"))

	groups, err := store.Students().ListGroups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Group{"3B"}, groups)

	records, err := store.Evidence().Query(ctx, evidence.Filter{})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, student.Name("Carla"), records[0].Student)

	// Absent group is a no-op.
	require.NoError(t, store.Lifecycle().DeleteGroup(ctx, "9Z"))
}

func TestLifecycleDeleteStudent(t *testing.T) {
	ctx := context.Background()
	store := seedLifecycle(t, t.TempDir())

	require.NoError(t, store.Lifecycle().DeleteStudent(ctx, "Ana"))

	_, err := store.Students().GetByName(ctx, "Ana")
	assert.True(t, shared.IsNotFound(err))

	records, err := store.Evidence().Query(ctx, evidence.Filter{Group: "3A"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, student.Name("Beto"), records[0].Student)

	// The rest of the group is untouched.
	students, err := store.Students().ListStudents(ctx, "3A")
	require.NoError(t, err)
	assert.Len(t, students, 1)
}
