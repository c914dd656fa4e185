package postgres

import (
	"context"
	"fmt"

	"github.com/competencias-hub/seguimiento/internal/domain/student"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// LIFECYCLE MANAGER
// ══════════════════════════════════════════════════════════════════════════════

// LifecycleManager implements evidence.Lifecycle with one transaction per
// cleanup, so the roster and evidence tables never diverge even if the
// process dies mid-operation.
type LifecycleManager struct {
	conn *Connection
}

// NewLifecycleManager creates a new LifecycleManager.
func NewLifecycleManager(conn *Connection) *LifecycleManager {
	return &LifecycleManager{conn: conn}
}

// ResetAll truncates both tables.
func (m *LifecycleManager) ResetAll(ctx context.Context) error {
	err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM actividades"); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, "DELETE FROM estudiantes")
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to reset all data: %w", err)
	}
	return nil
}

// DeleteGroup removes the group's students and evidence. No-op when absent.
func (m *LifecycleManager) DeleteGroup(ctx context.Context, group student.Group) error {
	err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM actividades WHERE grupo = $1", group.String()); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, "DELETE FROM estudiantes WHERE grupo = $1", group.String())
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}
	return nil
}

// DeleteStudent removes the student and their evidence. No-op when absent.
func (m *LifecycleManager) DeleteStudent(ctx context.Context, name student.Name) error {
	err := m.conn.WithTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, "DELETE FROM actividades WHERE estudiante = $1", name.String()); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, "DELETE FROM estudiantes WHERE nombre = $1", name.String())
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete student: %w", err)
	}
	return nil
}
