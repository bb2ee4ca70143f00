package storage

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
)

// migration is a single versioned schema change. Migrations are applied in
// order inside one transaction each and never edited after shipping.
type migration struct {
	version int
	name    string
	apply   func(tx *sql.Tx) error
}

var migrations = []migration{
	{
		version: 1,
		name:    "baseline",
		apply: func(tx *sql.Tx) error {
			_, err := tx.Exec(baselineSchema)
			return err
		},
	},
	{
		version: 2,
		name:    "product_privacy_and_rating",
		apply: func(tx *sql.Tx) error {
			stmts := []string{
				`ALTER TABLE product ADD COLUMN is_private INTEGER NOT NULL DEFAULT 0`,
				`ALTER TABLE product ADD COLUMN rating REAL`,
			}
			for _, s := range stmts {
				if _, err := tx.Exec(s); err != nil {
					return err
				}
			}
			return nil
		},
	},
}

// LatestSchemaVersion returns the highest known migration version.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion returns the current schema version, 0 for an unmigrated database.
// PRE: db is a valid database connection
// POST: returns version >= 0
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("failed to check schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	if err := db.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB brings the database to the latest schema version, backing up the
// database file before applying anything when there is work to do.
// PRE: db is open; dbPath is the on-disk path (":memory:" skips backup)
// POST: schema at LatestSchemaVersion(); idempotent on an up-to-date database
func MigrateDB(db *sql.DB, dbPath string) error {
	if err := InitDB(db); err != nil {
		return err
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}
	if current >= LatestSchemaVersion() {
		return nil
	}

	if err := backupDBFile(dbPath, current); err != nil {
		return err
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL)`); err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration %d: begin: %w", m.version, err)
		}
		if err := m.apply(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, m.version); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d: record version: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration %d: commit: %w", m.version, err)
		}
		slog.Info("schema_migrated", "version", m.version, "name", m.name)
	}

	return nil
}

// backupDBFile copies the database file aside before a migration chain runs.
// In-memory and missing databases are skipped.
func backupDBFile(dbPath string, fromVersion int) error {
	if dbPath == "" || dbPath == ":memory:" {
		return nil
	}
	data, err := os.ReadFile(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read db for backup: %w", err)
	}
	backupPath := fmt.Sprintf("%s.v%d.bak", dbPath, fromVersion)
	if err := os.WriteFile(backupPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write db backup: %w", err)
	}
	slog.Info("db_backup_written", "path", backupPath)
	return nil
}
