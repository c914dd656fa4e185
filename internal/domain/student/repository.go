package student

import (
	"context"
)

// ══════════════════════════════════════════════════════════════════════════════
// REPOSITORY INTERFACE
// Contrato del registro de estudiantes. Las implementaciones viven en
// infrastructure/persistence (archivo plano y PostgreSQL).
// ══════════════════════════════════════════════════════════════════════════════

// Repository define las operaciones del registro de estudiantes.
type Repository interface {
	// Register da de alta un estudiante.
	// Devuelve ErrStudentAlreadyExists si el nombre ya está registrado.
	Register(ctx context.Context, s *Student) error

	// GetByName devuelve un estudiante por nombre.
	// Devuelve ErrStudentNotFound si no está registrado.
	GetByName(ctx context.Context, name Name) (*Student, error)

	// ListGroups devuelve los grupos existentes, ordenados
	// lexicográficamente y sin duplicados.
	ListGroups(ctx context.Context) ([]Group, error)

	// ListStudents devuelve los estudiantes de un grupo en orden de registro.
	ListStudents(ctx context.Context, group Group) ([]*Student, error)

	// RemoveByGroup elimina todos los estudiantes del grupo.
	// No es error que el grupo no exista: la operación queda en no-op.
	RemoveByGroup(ctx context.Context, group Group) error

	// RemoveByName elimina el estudiante con ese nombre.
	// No es error que el nombre no exista: la operación queda en no-op.
	RemoveByName(ctx context.Context, name Name) error

	// Clear vacía el registro por completo.
	Clear(ctx context.Context) error

	// Count devuelve el número de estudiantes registrados.
	Count(ctx context.Context) (int, error)
}
