package routinelog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"glow/internal/adapters/storage"
	domain "glow/internal/domain/routinelog"
)

const logColumns = "id, user_id, routine_id, date, completed_steps, completed_at"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db storage.SQLDB
}

// NewSQLiteStore creates a new RoutineLogStore.
func NewSQLiteStore(db storage.SQLDB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// GetByDate retrieves the log for a (user, routine, date) triple.
// Non-canonical step IDs from legacy rows are filtered out on read.
// PRE: date is YYYY-MM-DD
// POST: Returns the log or an error if none exists for the triple
func (s *SQLiteStore) GetByDate(ctx context.Context, userID, routineID, date string) (domain.Log, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+logColumns+" FROM routine_log WHERE user_id = ? AND routine_id = ? AND date = ?",
		userID, routineID, date)
	return scanLog(row.Scan)
}

// Upsert writes the log for its (user, routine, date) triple in one
// statement. The unique constraint decides insert versus update, so two
// devices saving the same day's log converge on a single row with the
// last writer's step set.
// PRE: value has been validated; CompletedSteps contains canonical IDs only
// POST: Exactly one row exists for the triple, holding value's steps
func (s *SQLiteStore) Upsert(ctx context.Context, value domain.Log) error {
	stepsJSON, err := json.Marshal(domain.FilterCanonical(value.CompletedSteps))
	if err != nil {
		return fmt.Errorf("upsert routine log: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO routine_log (id, user_id, routine_id, date, completed_steps, completed_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, routine_id, date) DO UPDATE SET
			completed_steps=excluded.completed_steps,
			completed_at=excluded.completed_at
	`,
		value.ID,
		value.UserID,
		value.RoutineID,
		value.Date,
		string(stepsJSON),
		value.CompletedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upsert routine log: %w", err)
	}
	return nil
}

// DistinctDayCount returns the number of distinct calendar dates on which
// the user logged any routine. Two routines logged the same day count once.
// POST: Returns a non-negative count
func (s *SQLiteStore) DistinctDayCount(ctx context.Context, userID string) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(DISTINCT date) FROM routine_log WHERE user_id = ?", userID,
	).Scan(&count)
	return count, err
}

// ListByUser retrieves a user's most recent logs, newest date first.
// POST: Returns up to limit logs; empty slice when none exist
func (s *SQLiteStore) ListByUser(ctx context.Context, userID string, limit int) ([]domain.Log, error) {
	if limit <= 0 {
		limit = 30
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+logColumns+" FROM routine_log WHERE user_id = ? ORDER BY date DESC LIMIT ?",
		userID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.Log{}
	for rows.Next() {
		entity, err := scanLog(rows.Scan)
		if err != nil {
			return nil, err
		}
		results = append(results, entity)
	}
	return results, rows.Err()
}

func scanLog(scan func(dest ...any) error) (domain.Log, error) {
	var entity domain.Log
	var stepsJSON, completedAt string
	if err := scan(&entity.ID, &entity.UserID, &entity.RoutineID, &entity.Date, &stepsJSON, &completedAt); err != nil {
		if err == sql.ErrNoRows {
			return domain.Log{}, fmt.Errorf("routine log not found: %w", err)
		}
		return domain.Log{}, err
	}
	var steps []string
	if err := json.Unmarshal([]byte(stepsJSON), &steps); err != nil {
		return domain.Log{}, fmt.Errorf("decode completed steps: %w", err)
	}
	entity.CompletedSteps = domain.FilterCanonical(steps)
	if t, err := time.Parse(time.RFC3339, completedAt); err == nil {
		entity.CompletedAt = t
	}
	return entity, nil
}
