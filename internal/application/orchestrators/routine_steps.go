package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"glow/internal/domain/routine"
	"glow/internal/domain/routinelog"
)

// LogStoreForSteps defines the log access needed when step removal prunes
// the current day's completion log.
type LogStoreForSteps interface {
	GetByDate(ctx context.Context, userID, routineID, date string) (routinelog.Log, error)
	Upsert(ctx context.Context, l routinelog.Log) error
}

// StepDeps holds dependencies shared by the step orchestrators.
type StepDeps struct {
	RoutineStore RoutineStoreForOrchestrator
	LogStore     LogStoreForSteps
	GenerateID   func() string
	Now          func() time.Time
}

var (
	ErrRoutineNotOwned = errors.New("routine does not belong to this user")
)

// AddStepInput carries input for adding a step.
type AddStepInput struct {
	UserID      string
	RoutineID   string
	Name        string
	Description string
	ProductID   string
}

// ExecuteAddStep appends a step to the end of a routine.
// PRE: Routine exists and belongs to UserID; Name is non-empty
// POST: Step persisted with the next order value; returns the new step
func ExecuteAddStep(ctx context.Context, input AddStepInput, deps StepDeps) (routine.Step, error) {
	r, err := loadOwnedRoutine(ctx, deps.RoutineStore, input.RoutineID, input.UserID)
	if err != nil {
		return routine.Step{}, err
	}

	step := routine.Step{
		ID:          deps.GenerateID(),
		Name:        input.Name,
		Description: input.Description,
		ProductID:   input.ProductID,
	}
	r.AppendStep(&step)
	if err := step.Validate(); err != nil {
		return routine.Step{}, err
	}

	if err := deps.RoutineStore.ReplaceSteps(ctx, r.ID, r.Steps); err != nil {
		return routine.Step{}, err
	}
	slog.Info("step_added", "routine_id", r.ID, "step_id", step.ID)
	return step, nil
}

// RemoveStepInput carries input for removing a step.
type RemoveStepInput struct {
	UserID    string
	RoutineID string
	StepID    string
}

// ExecuteRemoveStep deletes a step and compacts the remaining order values.
// Today's completion log is pruned so the removed step no longer counts
// toward progress.
// PRE: Routine exists and belongs to UserID; StepID is present in it
// POST: Step removed, orders dense again, today's log references only live steps
func ExecuteRemoveStep(ctx context.Context, input RemoveStepInput, deps StepDeps) error {
	r, err := loadOwnedRoutine(ctx, deps.RoutineStore, input.RoutineID, input.UserID)
	if err != nil {
		return err
	}

	if err := r.RemoveStep(input.StepID); err != nil {
		return err
	}
	if err := deps.RoutineStore.ReplaceSteps(ctx, r.ID, r.Steps); err != nil {
		return err
	}

	pruneTodayLog(ctx, deps, r)

	slog.Info("step_removed", "routine_id", r.ID, "step_id", input.StepID)
	return nil
}

// ReorderStepsInput carries input for reordering steps.
type ReorderStepsInput struct {
	UserID    string
	RoutineID string
	StepIDs   []string // every current step ID exactly once, in new order
}

// ExecuteReorderSteps rewrites step order from an explicit permutation.
// PRE: StepIDs is a permutation of the routine's current step IDs
// POST: Step order matches StepIDs
func ExecuteReorderSteps(ctx context.Context, input ReorderStepsInput, deps StepDeps) error {
	r, err := loadOwnedRoutine(ctx, deps.RoutineStore, input.RoutineID, input.UserID)
	if err != nil {
		return err
	}

	if err := r.Reorder(input.StepIDs); err != nil {
		return err
	}
	if err := deps.RoutineStore.ReplaceSteps(ctx, r.ID, r.Steps); err != nil {
		return err
	}
	slog.Info("steps_reordered", "routine_id", r.ID, "count", len(input.StepIDs))
	return nil
}

func loadOwnedRoutine(ctx context.Context, store RoutineStoreForOrchestrator, routineID, userID string) (routine.Routine, error) {
	r, err := store.GetByID(ctx, routineID)
	if err != nil {
		return routine.Routine{}, err
	}
	if r.UserID != userID {
		return routine.Routine{}, ErrRoutineNotOwned
	}
	return r, nil
}

// pruneTodayLog drops references to deleted steps from today's log. Stale
// IDs are also filtered on read, so a failure here is logged, not returned.
func pruneTodayLog(ctx context.Context, deps StepDeps, r routine.Routine) {
	if deps.LogStore == nil {
		return
	}
	today := routinelog.Today(deps.Now)
	l, err := deps.LogStore.GetByDate(ctx, r.UserID, r.ID, today)
	if err != nil {
		return // no log today, nothing to prune
	}
	filtered := routinelog.FilterExisting(l.CompletedSteps, r.StepIDs())
	if len(filtered) == len(l.CompletedSteps) {
		return
	}
	l.CompletedSteps = filtered
	l.CompletedAt = deps.Now()
	if err := deps.LogStore.Upsert(ctx, l); err != nil {
		slog.Warn("log_prune_failed", "routine_id", r.ID, "error", err)
	}
}
