package shelfitem_test

import (
	"testing"
	"time"

	"glow/internal/domain/shelfitem"
)

// TestShelfItem_Validate tests validation of ShelfItem.
func TestShelfItem_Validate(t *testing.T) {
	tests := []struct {
		name    string
		item    shelfitem.ShelfItem
		wantErr bool
	}{
		{
			name:    "valid opened",
			item:    shelfitem.ShelfItem{ID: "1", UserID: "u1", ProductID: "p1", Status: shelfitem.StatusOpened},
			wantErr: false,
		},
		{
			name:    "valid wishlist",
			item:    shelfitem.ShelfItem{ID: "2", UserID: "u1", ProductID: "p1", Status: shelfitem.StatusWishlist},
			wantErr: false,
		},
		{
			name:    "missing user",
			item:    shelfitem.ShelfItem{ID: "3", ProductID: "p1", Status: shelfitem.StatusOpened},
			wantErr: true,
		},
		{
			name:    "missing product",
			item:    shelfitem.ShelfItem{ID: "4", UserID: "u1", Status: shelfitem.StatusOpened},
			wantErr: true,
		},
		{
			name:    "bad status",
			item:    shelfitem.ShelfItem{ID: "5", UserID: "u1", ProductID: "p1", Status: "archived"},
			wantErr: true,
		},
		{
			name:    "bad rating",
			item:    shelfitem.ShelfItem{ID: "6", UserID: "u1", ProductID: "p1", Status: shelfitem.StatusEmpty, Rating: 0.5},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.item.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("ShelfItem.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// TestShelfItem_MarkFinished tests the opened -> empty transition.
func TestShelfItem_MarkFinished(t *testing.T) {
	now := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	item := shelfitem.ShelfItem{ID: "1", UserID: "u1", ProductID: "p1", Status: shelfitem.StatusOpened}

	if !item.IsInUse() {
		t.Fatal("expected opened item to be in use")
	}
	if err := item.MarkFinished(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Status != shelfitem.StatusEmpty {
		t.Errorf("status = %q, want %q", item.Status, shelfitem.StatusEmpty)
	}
	if !item.UpdatedAt.Equal(now) {
		t.Errorf("UpdatedAt = %v, want %v", item.UpdatedAt, now)
	}

	if err := item.MarkFinished(now); err != shelfitem.ErrAlreadyFinished {
		t.Errorf("expected ErrAlreadyFinished, got %v", err)
	}
}
