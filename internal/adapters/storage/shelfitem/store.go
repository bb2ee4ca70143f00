package shelfitem

import (
	"context"

	domain "glow/internal/domain/shelfitem"
)

// Store persists ShelfItem state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.ShelfItem, error)
	GetByUserAndProduct(ctx context.Context, userID, productID string) (domain.ShelfItem, error)
	ListByUser(ctx context.Context, userID, status string) ([]domain.ShelfItem, error)
	Save(ctx context.Context, value domain.ShelfItem) error
	Delete(ctx context.Context, id string) error
}
