package orchestrators

import (
	"context"
	"log/slog"
	"time"
)

// MigrateStepIDsInput carries input for the step ID migration.
type MigrateStepIDsInput struct {
	UserID    string
	RoutineID string
}

// MigrateStepIDsDeps holds dependencies for MigrateStepIDs.
type MigrateStepIDsDeps struct {
	RoutineStore RoutineStoreForOrchestrator
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteMigrateStepIDs rewrites legacy step IDs to canonical identifiers
// and persists the result. Running it on an already-migrated routine writes
// nothing and reports zero.
// PRE: Routine exists and belongs to UserID
// POST: Every step ID is canonical; returns how many were rewritten
func ExecuteMigrateStepIDs(ctx context.Context, input MigrateStepIDsInput, deps MigrateStepIDsDeps) (int, error) {
	r, err := loadOwnedRoutine(ctx, deps.RoutineStore, input.RoutineID, input.UserID)
	if err != nil {
		return 0, err
	}

	migrated := r.MigrateStepIDs(deps.GenerateID)
	if migrated == 0 {
		return 0, nil
	}

	if err := deps.RoutineStore.ReplaceSteps(ctx, r.ID, r.Steps); err != nil {
		return 0, err
	}

	slog.Info("step_ids_migrated", "routine_id", r.ID, "count", migrated)
	return migrated, nil
}
