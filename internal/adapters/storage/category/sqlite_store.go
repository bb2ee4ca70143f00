package category

import (
	"context"
	"fmt"
	"time"

	"glow/internal/adapters/storage"
	domain "glow/internal/domain/category"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new CategoryStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// List retrieves all categories ordered by name.
// POST: Returns all entities; empty slice when none exist
func (s *SQLiteStore) List(ctx context.Context) ([]domain.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name, created_at FROM category ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Category{}
	for rows.Next() {
		var entity domain.Category
		var createdAt string
		if err := rows.Scan(&entity.ID, &entity.Name, &createdAt); err != nil {
			return nil, err
		}
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			entity.CreatedAt = t
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

// Save persists a Category to the database.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update, keyed by unique name)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Category) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO category (id, name, created_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO NOTHING
	`,
		entity.ID,
		entity.Name,
		entity.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}

// Count returns the total number of categories.
// POST: Returns count >= 0
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM category").Scan(&count)
	return count, err
}
