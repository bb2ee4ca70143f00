package routine

import (
	"context"

	domain "glow/internal/domain/routine"
)

// Store persists Routine state including steps.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Routine, error)
	GetByUserAndType(ctx context.Context, userID, routineType string) (domain.Routine, error)
	Save(ctx context.Context, value domain.Routine) error
	ReplaceSteps(ctx context.Context, routineID string, steps []domain.Step) error
	Delete(ctx context.Context, id string) error
}
