package devicepref

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"glow/internal/adapters/storage"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new DevicePrefStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get retrieves one preference value for a device.
// POST: Returns the value, or ErrNotFound when unset
func (s *SQLiteStore) Get(ctx context.Context, deviceKey, prefKey string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM device_pref WHERE device_key = ? AND pref_key = ?",
		deviceKey, prefKey,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return value, nil
}

// GetAll retrieves every preference stored for a device.
// POST: Returns a map; empty when the device has no preferences
func (s *SQLiteStore) GetAll(ctx context.Context, deviceKey string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT pref_key, value FROM device_pref WHERE device_key = ?", deviceKey)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	prefs := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		prefs[key] = value
	}
	return prefs, rows.Err()
}

// Set writes one preference value for a device.
// POST: The (device, key) pair holds value
func (s *SQLiteStore) Set(ctx context.Context, deviceKey, prefKey, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO device_pref (device_key, pref_key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(device_key, pref_key) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`,
		deviceKey, prefKey, value, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set device preference: %w", err)
	}
	return nil
}

// Delete removes one preference for a device.
// POST: The pair is removed; no error if it was unset
func (s *SQLiteStore) Delete(ctx context.Context, deviceKey, prefKey string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM device_pref WHERE device_key = ? AND pref_key = ?",
		deviceKey, prefKey)
	return err
}
