package infra

import (
	"fmt"

	"actalibro/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies idempotent SQL patches for the
// pieces AutoMigrate cannot express.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates the schema. NewDatabase calls it on connect.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Plan{},
		&model.Organizacion{},
		&model.Barrio{},
		&model.Puesto{},
		&model.Usuario{},
		&model.PermisoPuesto{},
		&model.Acta{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate does not emit:
// case-insensitive email uniqueness and the acta listing index. Every
// statement is safe to re-run on an already-patched schema.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Unique emails must compare case-insensitively; the plain column
		// index created by AutoMigrate stays for lookups.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_usuarios_email_lower') THEN
		    CREATE UNIQUE INDEX idx_usuarios_email_lower
		        ON usuarios (LOWER(email))
		        WHERE email IS NOT NULL;
		  END IF;
		END $$`,
		// Newest-first ledger pages read this composite index.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_actas_puesto_fecha') THEN
		    CREATE INDEX idx_actas_puesto_fecha
		        ON actas (puesto_id, fecha_creacion DESC);
		  END IF;
		END $$`,
	}

	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", sql[:min(len(sql), 60)], err)
		}
	}
	return nil
}
