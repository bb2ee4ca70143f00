package product

import (
	"context"

	domain "glow/internal/domain/product"
)

// Store persists Product state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Product, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Product, error)
	Save(ctx context.Context, value domain.Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Product, error)
	Count(ctx context.Context, filter ListFilter) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Search   string // free-text match against name and brand
	Category string // exact category value
	Brand    string // substring match against brand
	Limit    int
	Offset   int
}
