package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"glow/internal/domain/routinelog"
)

// LogStoreForOrchestrator defines the log store interface needed by the
// log orchestrators.
type LogStoreForOrchestrator interface {
	GetByDate(ctx context.Context, userID, routineID, date string) (routinelog.Log, error)
	Upsert(ctx context.Context, l routinelog.Log) error
	DistinctDayCount(ctx context.Context, userID string) (int, error)
}

// GetLogInput carries input for reading a day's log.
type GetLogInput struct {
	UserID    string
	RoutineID string
	Date      string // empty means today
}

// LogDeps holds dependencies for the log orchestrators.
type LogDeps struct {
	LogStore     LogStoreForOrchestrator
	RoutineStore RoutineStoreForOrchestrator
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteGetLog returns the completion log for a (routine, date) pair,
// filtered to steps that still exist. Days with no log return an empty
// log rather than an error.
// PRE: Routine exists and belongs to UserID
// POST: Returned CompletedSteps reference only current, canonical step IDs
func ExecuteGetLog(ctx context.Context, input GetLogInput, deps LogDeps) (routinelog.Log, error) {
	r, err := loadOwnedRoutine(ctx, deps.RoutineStore, input.RoutineID, input.UserID)
	if err != nil {
		return routinelog.Log{}, err
	}

	date := input.Date
	if date == "" {
		date = routinelog.Today(deps.Now)
	}
	if !routinelog.IsValidDate(date) {
		return routinelog.Log{}, routinelog.ErrInvalidDate
	}

	l, err := deps.LogStore.GetByDate(ctx, input.UserID, r.ID, date)
	if errors.Is(err, sql.ErrNoRows) {
		// No log for this day yet
		return routinelog.Log{
			UserID:         input.UserID,
			RoutineID:      r.ID,
			Date:           date,
			CompletedSteps: []string{},
		}, nil
	}
	if err != nil {
		return routinelog.Log{}, err
	}

	l.CompletedSteps = routinelog.FilterExisting(l.CompletedSteps, r.StepIDs())
	return l, nil
}

// SaveLogInput carries input for writing a day's log.
type SaveLogInput struct {
	UserID         string
	RoutineID      string
	Date           string // empty means today
	CompletedSteps []string
}

// ExecuteSaveLog writes the full completed-step set for a (routine, date)
// pair in one upsert. Unknown and malformed step IDs are dropped before
// the write, so a stale client cannot persist garbage.
// PRE: Routine exists and belongs to UserID; Date is empty or YYYY-MM-DD
// POST: Exactly one log row holds the filtered step set for the pair
func ExecuteSaveLog(ctx context.Context, input SaveLogInput, deps LogDeps) (routinelog.Log, error) {
	r, err := loadOwnedRoutine(ctx, deps.RoutineStore, input.RoutineID, input.UserID)
	if err != nil {
		return routinelog.Log{}, err
	}

	date := input.Date
	if date == "" {
		date = routinelog.Today(deps.Now)
	}

	steps := routinelog.FilterCanonical(input.CompletedSteps)
	steps = routinelog.FilterExisting(steps, r.StepIDs())

	l := routinelog.Log{
		ID:             deps.GenerateID(),
		UserID:         input.UserID,
		RoutineID:      r.ID,
		Date:           date,
		CompletedSteps: steps,
		CompletedAt:    deps.Now(),
	}
	if err := l.Validate(); err != nil {
		return routinelog.Log{}, err
	}
	if err := deps.LogStore.Upsert(ctx, l); err != nil {
		return routinelog.Log{}, err
	}

	slog.Info("log_saved", "routine_id", r.ID, "date", date, "completed", len(steps))
	return l, nil
}

// ExecuteLoggedDayCount returns how many distinct calendar days the user
// has logged any routine on. Used for the streak/consistency stat.
// PRE: UserID is non-empty
// POST: Returns a non-negative count
func ExecuteLoggedDayCount(ctx context.Context, userID string, deps LogDeps) (int, error) {
	if userID == "" {
		return 0, errors.New("user ID cannot be empty")
	}
	return deps.LogStore.DistinctDayCount(ctx, userID)
}
