// Package rubric contiene la configuración inmutable de la rúbrica de
// evaluación: la escala de niveles con sus pesos, las competencias con sus
// elementos y las actividades del semestre. Es el núcleo de configuración -
// se fija al arrancar el proceso y nunca cambia.
package rubric

import (
	"fmt"

	"github.com/competencias-hub/seguimiento/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// NIVELES DE LOGRO
// ══════════════════════════════════════════════════════════════════════════════

// Level representa un nivel de logro de la rúbrica.
type Level string

const (
	// LevelNoAplica - el elemento no aplica; queda excluido del cálculo.
	LevelNoAplica Level = "No aplica"
	// LevelIncipiente - logro incipiente (peso 0).
	LevelIncipiente Level = "Incipiente"
	// LevelBasico - logro básico (peso 1).
	LevelBasico Level = "Básico"
	// LevelSolido - logro sólido (peso 2).
	LevelSolido Level = "Sólido"
	// LevelDestacado - logro destacado (peso 3).
	LevelDestacado Level = "Destacado"
)

// Levels devuelve la escala completa en su orden fijo.
// El orden es el mismo que muestran los selectores de la capa de presentación.
func Levels() []Level {
	return []Level{LevelNoAplica, LevelIncipiente, LevelBasico, LevelSolido, LevelDestacado}
}

// weights asigna el peso entero a cada nivel puntuable.
// "No aplica" no tiene peso: no participa ni en el numerador ni en el
// denominador del porcentaje de logro.
var weights = map[Level]int{
	LevelIncipiente: 0,
	LevelBasico:     1,
	LevelSolido:     2,
	LevelDestacado:  3,
}

// IsValid verifica que el nivel pertenezca a la escala fija.
func (l Level) IsValid() bool {
	if l == LevelNoAplica {
		return true
	}
	_, ok := weights[l]
	return ok
}

// Countable devuelve true si el nivel participa en el cálculo de logro.
func (l Level) Countable() bool {
	return l.IsValid() && l != LevelNoAplica
}

// String devuelve la representación textual del nivel.
func (l Level) String() string {
	return string(l)
}

// Weight devuelve el peso entero de un nivel puntuable.
// Devuelve ErrUnknownLevel para "No aplica" o cualquier valor fuera de la
// escala: el llamador debe filtrar los "No aplica" antes de pedir el peso.
func Weight(l Level) (int, error) {
	w, ok := weights[l]
	if !ok {
		return 0, shared.WrapError("rubric", "Weight", shared.ErrInvalidLevel,
			fmt.Sprintf("level %q is not weighable", l), nil)
	}
	return w, nil
}

// MaxWeight devuelve el peso máximo definido en la escala (3, Destacado).
func MaxWeight() int {
	return weights[LevelDestacado]
}

// ParseLevel valida una cadena contra la escala y la devuelve como Level.
func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.IsValid() {
		return "", shared.WrapError("rubric", "ParseLevel", shared.ErrInvalidLevel,
			fmt.Sprintf("unknown level %q", s), nil)
	}
	return l, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// COMPETENCIAS Y ELEMENTOS
// ══════════════════════════════════════════════════════════════════════════════

// Competency identifica una competencia evaluada (por ejemplo "SING0101").
type Competency string

// Elements es el número fijo de elementos por competencia.
const Elements = 5

// competencies es la lista ordenada de competencias del curso.
var competencies = []Competency{"SING0101", "SING0301", "SEG0603"}

// Competencies devuelve la lista ordenada de competencias.
func Competencies() []Competency {
	out := make([]Competency, len(competencies))
	copy(out, competencies)
	return out
}

// IsValid verifica que la competencia esté configurada.
func (c Competency) IsValid() bool {
	for _, known := range competencies {
		if c == known {
			return true
		}
	}
	return false
}

// String devuelve la representación textual de la competencia.
func (c Competency) String() string {
	return string(c)
}

// ColumnName genera el nombre de columna de intercambio para un par
// (competencia, elemento): "SING0101_E1" .. "SING0101_E5".
func ColumnName(c Competency, element int) string {
	return fmt.Sprintf("%s_E%d", c, element)
}

// ParseColumnName resuelve un nombre de columna de intercambio al par
// (competencia, elemento) que representa.
func ParseColumnName(name string) (Competency, int, error) {
	for _, c := range competencies {
		for e := 1; e <= Elements; e++ {
			if ColumnName(c, e) == name {
				return c, e, nil
			}
		}
	}
	return "", 0, shared.WrapError("rubric", "ParseColumnName", shared.ErrInvalidInput,
		fmt.Sprintf("unknown column %q", name), nil)
}

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVIDADES
// ══════════════════════════════════════════════════════════════════════════════

// Activity identifica una actividad de evaluación ("A1".."A8").
type Activity string

// activityCount es el número de actividades del semestre.
const activityCount = 8

// Activities devuelve la lista ordenada de actividades.
func Activities() []Activity {
	out := make([]Activity, activityCount)
	for i := range out {
		out[i] = Activity(fmt.Sprintf("A%d", i+1))
	}
	return out
}

// IsValid verifica que la actividad esté configurada.
func (a Activity) IsValid() bool {
	for _, known := range Activities() {
		if a == known {
			return true
		}
	}
	return false
}

// String devuelve la representación textual de la actividad.
func (a Activity) String() string {
	return string(a)
}

// ══════════════════════════════════════════════════════════════════════════════
// SEMÁFORO
// ══════════════════════════════════════════════════════════════════════════════

// Band es la etiqueta de presentación para un porcentaje de logro.
type Band string

const (
	// BandDestacado - logro en [75, 100].
	BandDestacado Band = "Destacado"
	// BandSolido - logro en [50, 75).
	BandSolido Band = "Sólido"
	// BandBasico - logro en [25, 50).
	BandBasico Band = "Básico"
	// BandIncipiente - logro en [0, 25).
	BandIncipiente Band = "Incipiente"
)

// Semaphore clasifica un porcentaje de logro en su banda.
// Los límites inferiores son inclusivos: 75.0 ya es Destacado.
func Semaphore(percentage float64) Band {
	switch {
	case percentage >= 75:
		return BandDestacado
	case percentage >= 50:
		return BandSolido
	case percentage >= 25:
		return BandBasico
	default:
		return BandIncipiente
	}
}
