package shelfitem

import (
	"errors"
	"time"

	"glow/internal/domain/product"
)

// Status constants. The shelf is partitioned into products in use ("opened"),
// a wishlist, and finished products ("empty").
const (
	StatusOpened   = "opened"
	StatusWishlist = "wishlist"
	StatusEmpty    = "empty"
)

// ValidStatuses contains all valid shelf statuses.
var ValidStatuses = []string{StatusOpened, StatusWishlist, StatusEmpty}

// Domain errors
var (
	ErrEmptyUserID     = errors.New("shelf item user ID is required")
	ErrEmptyProductID  = errors.New("shelf item product ID is required")
	ErrInvalidStatus   = errors.New("status must be 'opened', 'wishlist', or 'empty'")
	ErrInvalidRating   = errors.New("rating must be between 1 and 5")
	ErrAlreadyFinished = errors.New("shelf item is already marked finished")
)

// ShelfItem links a user to a catalog product with a shelf state.
type ShelfItem struct {
	ID             string
	UserID         string
	ProductID      string
	Status         string
	DateOpened     string // YYYY-MM-DD, empty when unknown
	ExpirationDate string // YYYY-MM-DD, empty when unknown
	Rating         float64
	Review         string
	Product        *product.Product // joined catalog row, not persisted here
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Validate checks if the ShelfItem has valid data.
// PRE: ShelfItem struct is populated
// POST: Returns nil if valid, error otherwise
func (s *ShelfItem) Validate() error {
	if s.UserID == "" {
		return ErrEmptyUserID
	}
	if s.ProductID == "" {
		return ErrEmptyProductID
	}
	if !isValidStatus(s.Status) {
		return ErrInvalidStatus
	}
	if s.Rating != 0 && (s.Rating < 1 || s.Rating > 5) {
		return ErrInvalidRating
	}
	return nil
}

// IsInUse returns true when the product is currently on the active shelf.
// INVARIANT: Status field is not mutated
func (s *ShelfItem) IsInUse() bool {
	return s.Status == StatusOpened
}

// MarkFinished moves an in-use product to the finished partition.
// PRE: item is not already finished
// POST: Status is "empty", UpdatedAt refreshed
func (s *ShelfItem) MarkFinished(now time.Time) error {
	if s.Status == StatusEmpty {
		return ErrAlreadyFinished
	}
	s.Status = StatusEmpty
	s.UpdatedAt = now
	return nil
}

func isValidStatus(status string) bool {
	for _, v := range ValidStatuses {
		if status == v {
			return true
		}
	}
	return false
}
