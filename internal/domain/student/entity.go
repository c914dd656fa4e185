// Package student contiene la doble identidad del registro: el estudiante y el
// grupo al que pertenece. Es el ancla de todas las evidencias - borrar un
// estudiante o un grupo arrastra sus evidencias vía el cierre de semestre.
package student

import (
	"fmt"
	"strings"
	"time"

	"github.com/competencias-hub/seguimiento/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Name representa el nombre de un estudiante.
type Name string

// IsValid verifica que el nombre no esté vacío tras recortar espacios.
func (n Name) IsValid() bool {
	return strings.TrimSpace(string(n)) != ""
}

// String devuelve la representación textual del nombre.
func (n Name) String() string {
	return string(n)
}

// Group representa el grupo al que pertenece un estudiante.
// Un grupo no es una entidad propia: existe mientras al menos un estudiante
// lo referencie.
type Group string

// IsValid verifica que el grupo no esté vacío tras recortar espacios.
func (g Group) IsValid() bool {
	return strings.TrimSpace(string(g)) != ""
}

// String devuelve la representación textual del grupo.
func (g Group) String() string {
	return string(g)
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTIDAD PRINCIPAL: STUDENT
// ══════════════════════════════════════════════════════════════════════════════

// Student representa un estudiante registrado en el seguimiento.
type Student struct {
	// ID - identificador interno único (UUID en formato string).
	ID string

	// Name - nombre del estudiante; único dentro del registro.
	Name Name

	// Group - grupo al que pertenece. Sólo cambia re-registrando.
	Group Group

	// RegisteredAt - momento del registro.
	RegisteredAt time.Time
}

// NewStudentParams contiene los parámetros para registrar un estudiante.
type NewStudentParams struct {
	ID    string
	Name  Name
	Group Group
}

// NewStudent crea un estudiante validando todos los campos.
// Los campos vacíos producen un error de validación, nunca un registro mudo.
func NewStudent(params NewStudentParams) (*Student, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("student", "New", shared.ErrEmptyValue, "student id is required")
	}

	if !params.Name.IsValid() {
		return nil, shared.ErrEmptyStudentName
	}

	if !params.Group.IsValid() {
		return nil, shared.ErrEmptyGroupName
	}

	return &Student{
		ID:           params.ID,
		Name:         Name(strings.TrimSpace(string(params.Name))),
		Group:        Group(strings.TrimSpace(string(params.Group))),
		RegisteredAt: time.Now().UTC(),
	}, nil
}

// String devuelve la representación del estudiante para logging.
func (s *Student) String() string {
	return fmt.Sprintf("Student{ID: %s, Name: %s, Group: %s}", s.ID, s.Name, s.Group)
}

// Clone crea una copia del estudiante.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}

	clone := *s
	return &clone
}
