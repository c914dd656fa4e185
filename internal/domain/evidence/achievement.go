package evidence

import (
	"math"

	"github.com/competencias-hub/seguimiento/internal/domain/rubric"
)

// ══════════════════════════════════════════════════════════════════════════════
// CÁLCULO DE LOGRO
// La regla de negocio central del sistema: "No aplica" queda fuera del
// numerador Y del denominador. Un estudiante evaluado todo "No aplica" no
// cuenta como logro cero - simplemente no aporta datos.
// ══════════════════════════════════════════════════════════════════════════════

// AchievementPercentage calcula el porcentaje de logro de una competencia
// sobre un conjunto de evidencias.
//
// Por cada evidencia y cada elemento 1..Elements: si el nivel registrado es
// puntuable, su peso suma al numerador y MaxWeight() al denominador. Los pares
// "No aplica" no suman a ninguno de los dos. Sin denominador el resultado es 0:
// significa "sin datos aplicables", no logro nulo.
//
// El porcentaje se redondea a 2 decimales, mitades alejándose de cero
// (math.Round sobre centésimas).
func AchievementPercentage(records []*Record, competency rubric.Competency) float64 {
	points := 0
	maxPoints := 0

	for _, r := range records {
		for e := 1; e <= rubric.Elements; e++ {
			level, ok := r.Scores[competency][e]
			if !ok || !level.Countable() {
				continue
			}

			w, err := rubric.Weight(level)
			if err != nil {
				continue
			}

			points += w
			maxPoints += rubric.MaxWeight()
		}
	}

	if maxPoints == 0 {
		return 0
	}

	pct := float64(points) / float64(maxPoints) * 100
	return math.Round(pct*100) / 100
}
