package evidence

import (
	"context"
	"time"

	"github.com/competencias-hub/seguimiento/internal/domain/rubric"
	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPORTE DE LOGRO
// ══════════════════════════════════════════════════════════════════════════════

// CompetencyScore es el logro agregado de una competencia: porcentaje sobre la
// evidencia considerada y su banda de semáforo.
type CompetencyScore struct {
	Competency rubric.Competency `json:"competency"`
	Percentage float64           `json:"percentage"`
	Band       rubric.Band       `json:"band"`
}

// Report es el resultado agregado de una consulta de logro: una puntuación por
// competencia, en el orden fijo de la rúbrica, sobre los registros que
// cumplieron el filtro. Un Student vacío indica reporte grupal.
type Report struct {
	Group       student.Group     `json:"group"`
	Student     student.Name      `json:"student,omitempty"`
	Scores      []CompetencyScore `json:"scores"`
	RecordCount int               `json:"record_count"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// BuildReport agrega los registros en un reporte de logro. Con cero registros
// el reporte existe igualmente: cada competencia queda en 0 por ciento.
func BuildReport(records []*Record, group student.Group, name student.Name) *Report {
	scores := make([]CompetencyScore, 0, len(rubric.Competencies()))
	for _, c := range rubric.Competencies() {
		pct := AchievementPercentage(records, c)
		scores = append(scores, CompetencyScore{
			Competency: c,
			Percentage: pct,
			Band:       rubric.Semaphore(pct),
		})
	}

	return &Report{
		Group:       group,
		Student:     name,
		Scores:      scores,
		RecordCount: len(records),
		GeneratedAt: time.Now().UTC(),
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// CACHÉ DE REPORTES
// ══════════════════════════════════════════════════════════════════════════════

// ReportCache es el caché opcional de reportes de logro. Una implementación
// nula es válida: el agregador siempre puede recalcular desde el almacén.
type ReportCache interface {
	// GetReport devuelve el reporte cacheado o (nil, nil) si no existe.
	GetReport(ctx context.Context, group student.Group, name student.Name) (*Report, error)

	// SetReport guarda el reporte con el TTL configurado.
	SetReport(ctx context.Context, report *Report) error

	// InvalidateGroup descarta todos los reportes del grupo. Cualquier
	// captura o borrado dentro del grupo debe invalidarlo.
	InvalidateGroup(ctx context.Context, group student.Group) error

	// InvalidateAll descarta todos los reportes cacheados.
	InvalidateAll(ctx context.Context) error
}
