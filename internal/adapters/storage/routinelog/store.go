package routinelog

import (
	"context"

	domain "glow/internal/domain/routinelog"
)

// Store persists routine completion logs.
type Store interface {
	GetByDate(ctx context.Context, userID, routineID, date string) (domain.Log, error)
	Upsert(ctx context.Context, value domain.Log) error
	DistinctDayCount(ctx context.Context, userID string) (int, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Log, error)
}
