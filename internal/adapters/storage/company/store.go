package company

import (
	"context"

	domain "glow/internal/domain/company"
)

// Store persists Company state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Company, error)
	GetByName(ctx context.Context, name string) (domain.Company, error)
	List(ctx context.Context) ([]domain.Company, error)
	Save(ctx context.Context, value domain.Company) error
	EnsureByName(ctx context.Context, value domain.Company) (domain.Company, error)
}
