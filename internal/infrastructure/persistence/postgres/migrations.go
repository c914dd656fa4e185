package postgres

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 001: CREATE ESTUDIANTES
// ══════════════════════════════════════════════════════════════════════════════

const migration001Up = `
-- Migration: Create estudiantes table
-- Version: 001

CREATE TABLE IF NOT EXISTS estudiantes (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    nombre TEXT NOT NULL UNIQUE,
    grupo TEXT NOT NULL,
    registered_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
    seq BIGSERIAL,

    CONSTRAINT nombre_not_blank CHECK (btrim(nombre) <> ''),
    CONSTRAINT grupo_not_blank CHECK (btrim(grupo) <> '')
);

-- seq preserves registration order for group listings
CREATE INDEX IF NOT EXISTS idx_estudiantes_grupo ON estudiantes(grupo, seq);
`

const migration001Down = `
DROP TABLE IF EXISTS estudiantes;
`

// ══════════════════════════════════════════════════════════════════════════════
// MIGRATION 002: CREATE ACTIVIDADES
// ══════════════════════════════════════════════════════════════════════════════

const migration002Up = `
-- Migration: Create actividades table
-- Version: 002
-- One row per (estudiante, grupo, actividad); saves replace the row in place.

CREATE TABLE IF NOT EXISTS actividades (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    estudiante TEXT NOT NULL,
    grupo TEXT NOT NULL,
    actividad VARCHAR(10) NOT NULL,
    seq BIGSERIAL,

    -- Rubric levels keyed by interchange column name ("SING0101_E1": "Básico")
    niveles JSONB NOT NULL,

    captured_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),

    UNIQUE(estudiante, grupo, actividad),
    CONSTRAINT estudiante_not_blank CHECK (btrim(estudiante) <> ''),
    CONSTRAINT grupo_act_not_blank CHECK (btrim(grupo) <> '')
);

CREATE INDEX IF NOT EXISTS idx_actividades_grupo ON actividades(grupo, seq);
CREATE INDEX IF NOT EXISTS idx_actividades_estudiante ON actividades(estudiante, seq);
`

const migration002Down = `
DROP TABLE IF EXISTS actividades;
`

// ══════════════════════════════════════════════════════════════════════════════
// EMBEDDED MIGRATIONS
// ══════════════════════════════════════════════════════════════════════════════

// GetMigrations returns all embedded migrations.
func GetMigrations() []Migration {
	return []Migration{
		{
			Version: 1,
			Name:    "create_estudiantes",
			UpSQL:   migration001Up,
			DownSQL: migration001Down,
		},
		{
			Version: 2,
			Name:    "create_actividades",
			UpSQL:   migration002Up,
			DownSQL: migration002Down,
		},
	}
}
