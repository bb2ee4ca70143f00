package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"glow/internal/domain/routine"
	"glow/internal/domain/user"
)

// RoutineStoreForOrchestrator defines the routine store interface shared by
// the routine orchestrators.
type RoutineStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (routine.Routine, error)
	GetByUserAndType(ctx context.Context, userID, routineType string) (routine.Routine, error)
	Save(ctx context.Context, r routine.Routine) error
	ReplaceSteps(ctx context.Context, routineID string, steps []routine.Step) error
}

// UserStoreForRoutine defines the user store access needed to guarantee the
// profile row a routine references.
type UserStoreForRoutine interface {
	GetByID(ctx context.Context, id string) (user.User, error)
	Save(ctx context.Context, u user.User) error
}

// GetOrCreateRoutineInput carries input for the orchestrator.
type GetOrCreateRoutineInput struct {
	UserID string
	Email  string // used when the profile row has to be created
	Type   string // "am" or "pm"
}

// GetOrCreateRoutineDeps holds dependencies for GetOrCreateRoutine.
type GetOrCreateRoutineDeps struct {
	RoutineStore RoutineStoreForOrchestrator
	UserStore    UserStoreForRoutine
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteGetOrCreateRoutine returns the user's routine of the given type,
// creating an empty one on first access. The profile row is ensured first
// because the routine references it.
// PRE: UserID is non-empty; Type is "am" or "pm"
// POST: Exactly one routine exists for (user, type); it is returned
func ExecuteGetOrCreateRoutine(ctx context.Context, input GetOrCreateRoutineInput, deps GetOrCreateRoutineDeps) (routine.Routine, error) {
	if input.UserID == "" {
		return routine.Routine{}, errors.New("user ID cannot be empty")
	}
	if input.Type != routine.TypeAM && input.Type != routine.TypePM {
		return routine.Routine{}, routine.ErrInvalidType
	}

	existing, err := deps.RoutineStore.GetByUserAndType(ctx, input.UserID, input.Type)
	if err == nil {
		return existing, nil
	}

	if err := ensureUserRow(ctx, deps.UserStore, input.UserID, input.Email, deps.Now); err != nil {
		return routine.Routine{}, err
	}

	now := deps.Now()
	r := routine.Routine{
		ID:        deps.GenerateID(),
		UserID:    input.UserID,
		Type:      input.Type,
		Steps:     []routine.Step{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := r.Validate(); err != nil {
		return routine.Routine{}, err
	}
	if err := deps.RoutineStore.Save(ctx, r); err != nil {
		// A concurrent creator may have won the unique (user, type) race
		if again, getErr := deps.RoutineStore.GetByUserAndType(ctx, input.UserID, input.Type); getErr == nil {
			return again, nil
		}
		return routine.Routine{}, err
	}

	slog.Info("routine_created", "user_id", input.UserID, "type", input.Type)
	return r, nil
}

// ensureUserRow creates the profile row when it does not exist yet.
func ensureUserRow(ctx context.Context, store UserStoreForRoutine, userID, email string, now func() time.Time) error {
	if _, err := store.GetByID(ctx, userID); err == nil {
		return nil
	}
	t := now()
	u := user.User{
		ID:           userID,
		Email:        email,
		SkinConcerns: []string{},
		CreatedAt:    t,
		UpdatedAt:    t,
	}
	if err := u.Validate(); err != nil {
		return err
	}
	return store.Save(ctx, u)
}
