package evidence

import (
	"context"

	"github.com/competencias-hub/seguimiento/internal/domain/student"
)

// ══════════════════════════════════════════════════════════════════════════════
// STORE INTERFACE
// Contrato del almacén de evidencias. Las implementaciones viven en
// infrastructure/persistence (archivo plano y PostgreSQL).
// ══════════════════════════════════════════════════════════════════════════════

// Filter restringe una consulta de evidencias.
// Los campos vacíos no restringen: Student vacío significa "Todos".
type Filter struct {
	Group   student.Group
	Student student.Name
}

// Store define las operaciones sobre la colección de evidencias.
type Store interface {
	// Upsert guarda una evidencia. Si ya existe un registro con la misma
	// clave (estudiante, grupo, actividad) la fila completa se reemplaza;
	// si no, se añade al final. Tras la llamada nunca quedan dos filas con
	// la misma clave.
	Upsert(ctx context.Context, record *Record) error

	// Query devuelve las evidencias que satisfacen el filtro, en orden de
	// inserción.
	Query(ctx context.Context, filter Filter) ([]*Record, error)

	// RemoveByGroup elimina las evidencias del grupo. No-op si no hay.
	RemoveByGroup(ctx context.Context, group student.Group) error

	// RemoveByName elimina las evidencias del estudiante. No-op si no hay.
	RemoveByName(ctx context.Context, name student.Name) error

	// Clear vacía el almacén por completo.
	Clear(ctx context.Context) error

	// Count devuelve el número de evidencias almacenadas.
	Count(ctx context.Context) (int, error)
}

// ══════════════════════════════════════════════════════════════════════════════
// CICLO DE VIDA
// ══════════════════════════════════════════════════════════════════════════════

// Lifecycle coordina la limpieza destructiva sobre el registro de estudiantes
// y el almacén de evidencias a la vez. Las dos tablas se mueven juntas: la
// evidencia nunca debe quedar apuntando a estudiantes que ya no existen.
type Lifecycle interface {
	// ResetAll elimina todos los estudiantes y todas las evidencias.
	ResetAll(ctx context.Context) error

	// DeleteGroup elimina los estudiantes y evidencias del grupo.
	// No-op si el grupo no existe.
	DeleteGroup(ctx context.Context, group student.Group) error

	// DeleteStudent elimina al estudiante y sus evidencias.
	// No-op si el estudiante no existe.
	DeleteStudent(ctx context.Context, name student.Name) error
}
