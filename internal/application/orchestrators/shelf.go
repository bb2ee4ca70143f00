package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"glow/internal/domain/shelfitem"
)

// ShelfStoreForOrchestrator defines the shelf store interface needed by the
// shelf orchestrators.
type ShelfStoreForOrchestrator interface {
	GetByID(ctx context.Context, id string) (shelfitem.ShelfItem, error)
	GetByUserAndProduct(ctx context.Context, userID, productID string) (shelfitem.ShelfItem, error)
	Save(ctx context.Context, s shelfitem.ShelfItem) error
	Delete(ctx context.Context, id string) error
}

// AddToShelfInput carries input for the orchestrator.
type AddToShelfInput struct {
	UserID         string
	ProductID      string
	Status         string // defaults to "opened"
	DateOpened     string
	ExpirationDate string
}

// ShelfDeps holds dependencies for the shelf orchestrators.
type ShelfDeps struct {
	ShelfStore ShelfStoreForOrchestrator
	GenerateID func() string
	Now        func() time.Time
}

var ErrShelfItemNotOwned = errors.New("shelf item does not belong to this user")

// ExecuteAddToShelf puts a product on the user's shelf. Adding a product
// that is already shelved updates the existing row instead of duplicating
// it, so wishlisting then opening the same product converges on one entry.
// PRE: UserID and ProductID are non-empty; Status is empty or valid
// POST: Exactly one shelf row links the user to the product
func ExecuteAddToShelf(ctx context.Context, input AddToShelfInput, deps ShelfDeps) (shelfitem.ShelfItem, error) {
	if input.UserID == "" {
		return shelfitem.ShelfItem{}, shelfitem.ErrEmptyUserID
	}
	if input.ProductID == "" {
		return shelfitem.ShelfItem{}, shelfitem.ErrEmptyProductID
	}

	status := input.Status
	if status == "" {
		status = shelfitem.StatusOpened
	}

	now := deps.Now()
	item, err := deps.ShelfStore.GetByUserAndProduct(ctx, input.UserID, input.ProductID)
	if err != nil {
		item = shelfitem.ShelfItem{
			ID:        deps.GenerateID(),
			UserID:    input.UserID,
			ProductID: input.ProductID,
			CreatedAt: now,
		}
	}
	item.Status = status
	item.DateOpened = input.DateOpened
	item.ExpirationDate = input.ExpirationDate
	item.UpdatedAt = now

	if err := item.Validate(); err != nil {
		return shelfitem.ShelfItem{}, err
	}
	if err := deps.ShelfStore.Save(ctx, item); err != nil {
		return shelfitem.ShelfItem{}, err
	}

	slog.Info("shelf_item_added", "user_id", input.UserID, "product_id", input.ProductID, "status", status)
	return item, nil
}

// UpdateShelfItemInput carries input for updating a shelf row.
type UpdateShelfItemInput struct {
	UserID         string
	ItemID         string
	Status         string
	DateOpened     string
	ExpirationDate string
	Rating         float64
	Review         string
}

// ExecuteUpdateShelfItem updates the state of an existing shelf row.
// PRE: Item exists and belongs to UserID
// POST: Row updated with new status, dates, rating, review
func ExecuteUpdateShelfItem(ctx context.Context, input UpdateShelfItemInput, deps ShelfDeps) (shelfitem.ShelfItem, error) {
	item, err := loadOwnedShelfItem(ctx, deps.ShelfStore, input.ItemID, input.UserID)
	if err != nil {
		return shelfitem.ShelfItem{}, err
	}

	if input.Status != "" {
		item.Status = input.Status
	}
	item.DateOpened = input.DateOpened
	item.ExpirationDate = input.ExpirationDate
	item.Rating = input.Rating
	item.Review = input.Review
	item.UpdatedAt = deps.Now()

	if err := item.Validate(); err != nil {
		return shelfitem.ShelfItem{}, err
	}
	if err := deps.ShelfStore.Save(ctx, item); err != nil {
		return shelfitem.ShelfItem{}, err
	}
	return item, nil
}

// FinishShelfItemInput carries input for marking a product finished.
type FinishShelfItemInput struct {
	UserID string
	ItemID string
}

// ExecuteFinishShelfItem moves a shelf product to the finished partition.
// PRE: Item exists, belongs to UserID, and is not already finished
// POST: Item status is "empty"
func ExecuteFinishShelfItem(ctx context.Context, input FinishShelfItemInput, deps ShelfDeps) (shelfitem.ShelfItem, error) {
	item, err := loadOwnedShelfItem(ctx, deps.ShelfStore, input.ItemID, input.UserID)
	if err != nil {
		return shelfitem.ShelfItem{}, err
	}

	if err := item.MarkFinished(deps.Now()); err != nil {
		return shelfitem.ShelfItem{}, err
	}
	if err := deps.ShelfStore.Save(ctx, item); err != nil {
		return shelfitem.ShelfItem{}, err
	}

	slog.Info("shelf_item_finished", "user_id", input.UserID, "item_id", item.ID)
	return item, nil
}

// ExecuteRemoveFromShelf deletes a shelf row. The catalog product stays.
// PRE: Item exists and belongs to UserID
// POST: Row removed
func ExecuteRemoveFromShelf(ctx context.Context, userID, itemID string, deps ShelfDeps) error {
	item, err := loadOwnedShelfItem(ctx, deps.ShelfStore, itemID, userID)
	if err != nil {
		return err
	}
	if err := deps.ShelfStore.Delete(ctx, item.ID); err != nil {
		return err
	}
	slog.Info("shelf_item_removed", "user_id", userID, "item_id", itemID)
	return nil
}

func loadOwnedShelfItem(ctx context.Context, store ShelfStoreForOrchestrator, itemID, userID string) (shelfitem.ShelfItem, error) {
	item, err := store.GetByID(ctx, itemID)
	if err != nil {
		return shelfitem.ShelfItem{}, err
	}
	if item.UserID != userID {
		return shelfitem.ShelfItem{}, ErrShelfItemNotOwned
	}
	return item, nil
}
