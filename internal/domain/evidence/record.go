// Package evidence contiene la evidencia de rúbrica: el registro de niveles de
// logro de un estudiante en una actividad, y el cálculo del porcentaje de
// logro por competencia sobre un conjunto de registros.
package evidence

import (
	"fmt"
	"time"

	"github.com/competencias-hub/seguimiento/internal/domain/rubric"
	"github.com/competencias-hub/seguimiento/internal/domain/shared"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// SCORE SHEET
// ══════════════════════════════════════════════════════════════════════════════

// ScoreSheet asigna un nivel de logro a cada par (competencia, elemento).
// El esquema es fijo: toda competencia configurada con todos sus elementos.
// Un par ausente es un error de integridad, no un valor por defecto.
type ScoreSheet map[rubric.Competency]map[int]rubric.Level

// NewScoreSheet crea una hoja sembrada con "No aplica" en todos los pares.
// Es el estado inicial de una captura nueva; la siembra es la única situación
// donde los pares se rellenan en silencio.
func NewScoreSheet() ScoreSheet {
	sheet := make(ScoreSheet, len(rubric.Competencies()))
	for _, c := range rubric.Competencies() {
		sheet[c] = make(map[int]rubric.Level, rubric.Elements)
		for e := 1; e <= rubric.Elements; e++ {
			sheet[c][e] = rubric.LevelNoAplica
		}
	}
	return sheet
}

// Set asigna el nivel de un par (competencia, elemento).
func (s ScoreSheet) Set(c rubric.Competency, element int, level rubric.Level) error {
	if !c.IsValid() {
		return shared.ErrUnknownCompetency
	}
	if element < 1 || element > rubric.Elements {
		return shared.WrapError("evidence", "Set", shared.ErrInvalidInput,
			fmt.Sprintf("element %d outside 1..%d", element, rubric.Elements), nil)
	}
	if !level.IsValid() {
		return shared.WrapError("evidence", "Set", shared.ErrInvalidLevel,
			fmt.Sprintf("unknown level %q", level), nil)
	}

	if s[c] == nil {
		s[c] = make(map[int]rubric.Level, rubric.Elements)
	}
	s[c][element] = level
	return nil
}

// Level devuelve el nivel registrado para un par (competencia, elemento).
func (s ScoreSheet) Level(c rubric.Competency, element int) (rubric.Level, error) {
	level, ok := s[c][element]
	if !ok {
		return "", shared.WrapError("evidence", "Level", shared.ErrMissingElement,
			fmt.Sprintf("no score for %s", rubric.ColumnName(c, element)), nil)
	}
	return level, nil
}

// Validate verifica que la hoja cubra todos los pares del esquema con niveles
// de la escala fija.
func (s ScoreSheet) Validate() error {
	for _, c := range rubric.Competencies() {
		for e := 1; e <= rubric.Elements; e++ {
			level, ok := s[c][e]
			if !ok {
				return shared.WrapError("evidence", "Validate", shared.ErrMissingElement,
					fmt.Sprintf("missing score for %s", rubric.ColumnName(c, e)), nil)
			}
			if !level.IsValid() {
				return shared.WrapError("evidence", "Validate", shared.ErrInvalidLevel,
					fmt.Sprintf("invalid level %q for %s", level, rubric.ColumnName(c, e)), nil)
			}
		}
	}
	return nil
}

// Clone crea una copia profunda de la hoja.
func (s ScoreSheet) Clone() ScoreSheet {
	clone := make(ScoreSheet, len(s))
	for c, elements := range s {
		clone[c] = make(map[int]rubric.Level, len(elements))
		for e, level := range elements {
			clone[c][e] = level
		}
	}
	return clone
}

// ══════════════════════════════════════════════════════════════════════════════
// ENTIDAD PRINCIPAL: RECORD
// ══════════════════════════════════════════════════════════════════════════════

// Record es la evidencia de una actividad: los niveles de rúbrica de un
// estudiante en una actividad concreta.
type Record struct {
	// ID - identificador interno único (UUID en formato string).
	ID string

	// Student - nombre del estudiante evaluado.
	Student student.Name

	// Group - grupo del estudiante al momento de la captura.
	// Forma parte de la identidad del registro.
	Group student.Group

	// Activity - actividad evaluada ("A1".."A8").
	Activity rubric.Activity

	// Scores - nivel de logro por cada par (competencia, elemento).
	Scores ScoreSheet

	// CapturedAt - momento de la última captura.
	CapturedAt time.Time
}

// Key identifica unívocamente un registro de evidencia.
// La clave incluye el grupo: si el estudiante cambia de grupo, la evidencia
// capturada en el grupo anterior conserva su identidad.
type Key struct {
	Student  student.Name
	Group    student.Group
	Activity rubric.Activity
}

// Key devuelve la clave de identidad del registro.
func (r *Record) Key() Key {
	return Key{Student: r.Student, Group: r.Group, Activity: r.Activity}
}

// NewRecordParams contiene los parámetros para crear una evidencia.
type NewRecordParams struct {
	ID       string
	Student  student.Name
	Group    student.Group
	Activity rubric.Activity
	Scores   ScoreSheet
}

// NewRecord crea una evidencia validando identidad y hoja completa.
// Si Scores es nil, la evidencia se siembra con "No aplica" en todos los pares.
func NewRecord(params NewRecordParams) (*Record, error) {
	if params.ID == "" {
		return nil, shared.NewDomainError("evidence", "New", shared.ErrEmptyValue, "record id is required")
	}

	if !params.Student.IsValid() {
		return nil, shared.ErrEmptyStudentName
	}

	if !params.Group.IsValid() {
		return nil, shared.ErrEmptyGroupName
	}

	if !params.Activity.IsValid() {
		return nil, shared.ErrUnknownActivity
	}

	scores := params.Scores
	if scores == nil {
		scores = NewScoreSheet()
	}
	if err := scores.Validate(); err != nil {
		return nil, err
	}

	return &Record{
		ID:         params.ID,
		Student:    params.Student,
		Group:      params.Group,
		Activity:   params.Activity,
		Scores:     scores.Clone(),
		CapturedAt: time.Now().UTC(),
	}, nil
}

// String devuelve la representación del registro para logging.
func (r *Record) String() string {
	return fmt.Sprintf("Record{Student: %s, Group: %s, Activity: %s}", r.Student, r.Group, r.Activity)
}

// Clone crea una copia profunda del registro.
func (r *Record) Clone() *Record {
	if r == nil {
		return nil
	}

	clone := *r
	clone.Scores = r.Scores.Clone()
	return &clone
}
