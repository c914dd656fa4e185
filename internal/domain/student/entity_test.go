package student

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/competencias-hub/seguimiento/internal/domain/shared"
)

func TestNewStudent(t *testing.T) {
	s, err := NewStudent(NewStudentParams{
		ID:    "id-1",
		Name:  "Ana Torres",
		Group: "3A",
	})
	require.NoError(t, err)

	assert.Equal(t, "id-1", s.ID)
	assert.Equal(t, Name("Ana Torres"), s.Name)
	assert.Equal(t, Group("3A"), s.Group)
	assert.False(t, s.RegisteredAt.IsZero())
}

func TestNewStudentTrimsWhitespace(t *testing.T) {
	s, err := NewStudent(NewStudentParams{
		ID:    "id-1",
		Name:  "  Ana Torres  ",
		Group: " 3A ",
	})
	require.NoError(t, err)

	assert.Equal(t, Name("Ana Torres"), s.Name)
	assert.Equal(t, Group("3A"), s.Group)
}

func TestNewStudentValidation(t *testing.T) {
	_, err := NewStudent(NewStudentParams{Name: "Ana", Group: "3A"})
	assert.True(t, shared.IsValidation(err))

	_, err = NewStudent(NewStudentParams{ID: "id-1", Name: "   ", Group: "3A"})
	assert.True(t, shared.IsValidation(err))

	_, err = NewStudent(NewStudentParams{ID: "id-1", Name: "Ana", Group: ""})
	assert.True(t, shared.IsValidation(err))
}

func TestValueObjectValidity(t *testing.T) {
	assert.True(t, Name("Ana").IsValid())
	assert.False(t, Name("").IsValid())
	assert.False(t, Name("   ").IsValid())

	assert.True(t, Group("3A").IsValid())
	assert.False(t, Group("\t").IsValid())
}

func TestStudentClone(t *testing.T) {
	s, err := NewStudent(NewStudentParams{ID: "id-1", Name: "Ana", Group: "3A"})
	require.NoError(t, err)

	clone := s.Clone()
	clone.Group = "3B"
	assert.Equal(t, Group("3A"), s.Group)

	var nilStudent *Student
	assert.Nil(t, nilStudent.Clone())
}
