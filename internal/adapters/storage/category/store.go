package category

import (
	"context"

	domain "glow/internal/domain/category"
)

// Store persists Category state.
type Store interface {
	List(ctx context.Context) ([]domain.Category, error)
	Save(ctx context.Context, value domain.Category) error
	Count(ctx context.Context) (int, error)
}
