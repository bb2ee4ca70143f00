package company

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"glow/internal/adapters/storage"
	domain "glow/internal/domain/company"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new CompanyStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Company by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Company, error) {
	row := s.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM company WHERE id = ?", id)
	return scanCompany(row.Scan)
}

// GetByName retrieves a Company by name, case-insensitively.
// PRE: name is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByName(ctx context.Context, name string) (domain.Company, error) {
	// The name column is declared COLLATE NOCASE, so = matches case-insensitively.
	row := s.db.QueryRowContext(ctx, "SELECT id, name, created_at FROM company WHERE name = ?", name)
	return scanCompany(row.Scan)
}

// List retrieves all companies ordered by name.
// POST: Returns all entities; empty slice when none exist
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Company, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM company ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Company{}
	for rows.Next() {
		entity, err := scanCompany(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Company to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Company) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO company (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET name=excluded.name
	`,
		entity.ID,
		entity.Name,
		entity.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save company: %w", err)
	}
	return nil
}

// EnsureByName inserts the company unless one with the same name (any casing)
// already exists, then returns the surviving row. The unique NOCASE constraint
// on name makes concurrent creators of the same brand converge on one row
// instead of racing a read-then-write check.
// PRE: entity has a fresh ID and a validated, trimmed name
// POST: Exactly one company row exists for the name; it is returned
func (s *SQLiteStore) EnsureByName(ctx context.Context, entity domain.Company) (domain.Company, error) {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO company (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`,
		entity.ID,
		entity.Name,
		entity.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return domain.Company{}, fmt.Errorf("ensure company: %w", err)
	}
	return s.GetByName(ctx, entity.Name)
}

func scanCompany(scan func(dest ...any) error) (domain.Company, error) {
	var entity domain.Company
	var createdAt string
	if err := scan(&entity.ID, &entity.Name, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Company{}, fmt.Errorf("company not found: %w", err)
		}
		return domain.Company{}, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		entity.CreatedAt = t
	}
	return entity, nil
}
