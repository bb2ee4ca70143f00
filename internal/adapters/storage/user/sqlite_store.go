package user

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"glow/internal/adapters/storage"
	domain "glow/internal/domain/user"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new UserStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a User by its ID.
// PRE: id is non-empty
// POST: Returns the entity or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, email, skin_type, skin_concerns, created_at, updated_at FROM users WHERE id = ?", id)

	var entity domain.User
	var skinType sql.NullString
	var concernsJSON, createdAt, updatedAt string
	err := row.Scan(&entity.ID, &entity.Email, &skinType, &concernsJSON, &createdAt, &updatedAt)
	if err == sql.ErrNoRows {
		return domain.User{}, fmt.Errorf("user not found: %w", err)
	}
	if err != nil {
		return domain.User{}, err
	}
	if skinType.Valid {
		entity.SkinType = skinType.String
	}
	if err := json.Unmarshal([]byte(concernsJSON), &entity.SkinConcerns); err != nil {
		entity.SkinConcerns = []string{}
	}
	if entity.SkinConcerns == nil {
		entity.SkinConcerns = []string{}
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		entity.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		entity.UpdatedAt = t
	}
	return entity, nil
}

// Save persists a User to the database. Routines and shelf items reference
// this row by ID, so callers upsert it before creating either.
// PRE: entity has been validated
// POST: Entity is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var skinType interface{}
	if entity.SkinType != "" {
		skinType = entity.SkinType
	}
	concerns := entity.SkinConcerns
	if concerns == nil {
		concerns = []string{}
	}
	concernsJSON, err := json.Marshal(concerns)
	if err != nil {
		return fmt.Errorf("marshal skin_concerns: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO users (id, email, skin_type, skin_concerns, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			email=excluded.email,
			skin_type=excluded.skin_type,
			skin_concerns=excluded.skin_concerns,
			updated_at=excluded.updated_at
	`,
		entity.ID,
		entity.Email,
		skinType,
		string(concernsJSON),
		entity.CreatedAt.UTC().Format(time.RFC3339),
		entity.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save user: %w", err)
	}

	return tx.Commit()
}

// Delete removes a User from the database.
// PRE: id is non-empty
// POST: Entity with given id is removed
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM users WHERE id = ?", id)
	return err
}
