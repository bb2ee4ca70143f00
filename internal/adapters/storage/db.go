package storage

import (
	"database/sql"
	"fmt"
)

// InitDB initializes the database connection settings.
// PRE: db is a valid database connection
// POST: WAL mode and foreign key enforcement enabled
func InitDB(db *sql.DB) error {
	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	// Enable foreign key enforcement
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	return nil
}

// baselineSchema is the version-1 schema. Later changes are additive
// migrations in migrations.go; this block is never edited in place.
const baselineSchema = `
	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role TEXT NOT NULL,
		created_at TEXT NOT NULL,
		failed_logins INTEGER NOT NULL DEFAULT 0,
		locked_until TEXT
	);

	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL,
		skin_type TEXT,
		skin_concerns TEXT NOT NULL DEFAULT '[]',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS company (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL COLLATE NOCASE UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS category (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS product (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		brand TEXT,
		category TEXT,
		category_id TEXT,
		company_id TEXT,
		ingredients_text TEXT,
		barcode TEXT,
		image_url TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		FOREIGN KEY (category_id) REFERENCES category(id),
		FOREIGN KEY (company_id) REFERENCES company(id)
	);

	CREATE TABLE IF NOT EXISTS user_product (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		status TEXT NOT NULL,
		date_opened TEXT,
		expiration_date TEXT,
		rating REAL,
		review TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (user_id, product_id),
		FOREIGN KEY (user_id) REFERENCES users(id),
		FOREIGN KEY (product_id) REFERENCES product(id)
	);

	CREATE TABLE IF NOT EXISTS routine (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		type TEXT NOT NULL,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		UNIQUE (user_id, type),
		FOREIGN KEY (user_id) REFERENCES users(id)
	);

	CREATE TABLE IF NOT EXISTS routine_step (
		id TEXT PRIMARY KEY,
		routine_id TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		product_id TEXT,
		step_order INTEGER NOT NULL,
		FOREIGN KEY (routine_id) REFERENCES routine(id)
	);

	CREATE TABLE IF NOT EXISTS routine_log (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		routine_id TEXT NOT NULL,
		date TEXT NOT NULL,
		completed_steps TEXT NOT NULL DEFAULT '[]',
		completed_at TEXT NOT NULL,
		UNIQUE (user_id, routine_id, date),
		FOREIGN KEY (routine_id) REFERENCES routine(id)
	);

	CREATE TABLE IF NOT EXISTS device_pref (
		device_key TEXT NOT NULL,
		pref_key TEXT NOT NULL,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (device_key, pref_key)
	);

	CREATE INDEX IF NOT EXISTS idx_routine_log_user ON routine_log(user_id);
	CREATE INDEX IF NOT EXISTS idx_user_product_user ON user_product(user_id);
	CREATE INDEX IF NOT EXISTS idx_product_name ON product(name);
`
