package routine

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"glow/internal/adapters/storage"
	domain "glow/internal/domain/routine"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new RoutineStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByID retrieves a Routine and its steps by routine ID.
// PRE: id is non-empty
// POST: Returns the entity with steps sorted by order, or an error if not found
func (s *SQLiteStore) GetByID(ctx context.Context, id string) (domain.Routine, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, type, created_at, updated_at FROM routine WHERE id = ?", id)
	return s.scanWithSteps(ctx, row.Scan)
}

// GetByUserAndType retrieves a user's routine of the given type.
// The unique (user_id, type) constraint guarantees at most one.
// POST: Returns the entity with steps, or an error if the user has none
func (s *SQLiteStore) GetByUserAndType(ctx context.Context, userID, routineType string) (domain.Routine, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT id, user_id, type, created_at, updated_at FROM routine WHERE user_id = ? AND type = ?",
		userID, routineType)
	return s.scanWithSteps(ctx, row.Scan)
}

// Save persists the routine row. Steps are persisted separately through
// ReplaceSteps so every step edit is an atomic replace of the full set.
// PRE: entity has been validated
// POST: Routine row is persisted (insert or update)
func (s *SQLiteStore) Save(ctx context.Context, entity domain.Routine) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO routine (id, user_id, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET updated_at=excluded.updated_at
	`,
		entity.ID,
		entity.UserID,
		entity.Type,
		entity.CreatedAt.UTC().Format(time.RFC3339),
		entity.UpdatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("save routine: %w", err)
	}
	return nil
}

// ReplaceSteps swaps the routine's step set in one transaction. Readers see
// either the old set or the new set, never a partial mix.
// PRE: routineID exists; steps carry dense order values
// POST: routine_step rows for routineID exactly match steps
func (s *SQLiteStore) ReplaceSteps(ctx context.Context, routineID string, steps []domain.Step) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace steps: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM routine_step WHERE routine_id = ?", routineID); err != nil {
		return fmt.Errorf("replace steps: %w", err)
	}
	for _, step := range steps {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO routine_step (id, routine_id, name, description, product_id, step_order)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			step.ID, routineID, step.Name, step.Description, nullable(step.ProductID), step.Order,
		)
		if err != nil {
			return fmt.Errorf("replace steps: %w", err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		"UPDATE routine SET updated_at = ? WHERE id = ?",
		time.Now().UTC().Format(time.RFC3339), routineID,
	); err != nil {
		return fmt.Errorf("replace steps: %w", err)
	}
	return tx.Commit()
}

// Delete removes a Routine and its steps.
// PRE: id is non-empty
// POST: Routine and step rows are removed; no error if they did not exist
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM routine_step WHERE routine_id = ?", id); err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM routine WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete routine: %w", err)
	}
	return tx.Commit()
}

func (s *SQLiteStore) scanWithSteps(ctx context.Context, scan func(dest ...any) error) (domain.Routine, error) {
	var entity domain.Routine
	var createdAt, updatedAt string
	if err := scan(&entity.ID, &entity.UserID, &entity.Type, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Routine{}, fmt.Errorf("routine not found: %w", err)
		}
		return domain.Routine{}, err
	}
	if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
		entity.CreatedAt = t
	}
	if t, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		entity.UpdatedAt = t
	}

	steps, err := s.loadSteps(ctx, entity.ID)
	if err != nil {
		return domain.Routine{}, err
	}
	entity.Steps = steps
	return entity, nil
}

func (s *SQLiteStore) loadSteps(ctx context.Context, routineID string) ([]domain.Step, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, description, product_id, step_order
		FROM routine_step WHERE routine_id = ? ORDER BY step_order
	`, routineID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	steps := []domain.Step{}
	for rows.Next() {
		var step domain.Step
		var description, productID sql.NullString
		if err := rows.Scan(&step.ID, &step.Name, &description, &productID, &step.Order); err != nil {
			return nil, err
		}
		step.Description = description.String
		step.ProductID = productID.String
		steps = append(steps, step)
	}
	return steps, rows.Err()
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
