package web

import (
	"database/sql"
	"errors"
	"net/http"
	"slices"

	"glow/internal/application/orchestrators"
	"glow/internal/domain/shelfitem"
)

// handleListShelf returns the user's shelf, newest activity first.
// ?status=opened|wishlist|empty narrows to one partition.
func handleListShelf(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	status := r.URL.Query().Get("status")
	if status != "" && !slices.Contains(shelfitem.ValidStatuses, status) {
		errorJSON(w, http.StatusBadRequest, shelfitem.ErrInvalidStatus.Error())
		return
	}

	items, err := stores.ShelfStore.ListByUser(r.Context(), sess.AccountID, status)
	if err != nil {
		internalError(w, err)
		return
	}

	views := make([]shelfItemView, 0, len(items))
	for _, item := range items {
		views = append(views, toShelfItemView(item))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": views})
}

// handleAddToShelf places a catalog product on the user's shelf.
func handleAddToShelf(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		ProductID      string `json:"product_id"`
		Status         string `json:"status"`
		DateOpened     string `json:"date_opened"`
		ExpirationDate string `json:"expiration_date"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := orchestrators.ExecuteAddToShelf(r.Context(), orchestrators.AddToShelfInput{
		UserID:         sess.AccountID,
		ProductID:      input.ProductID,
		Status:         input.Status,
		DateOpened:     input.DateOpened,
		ExpirationDate: input.ExpirationDate,
	}, shelfDeps())
	if err != nil {
		writeShelfError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toShelfItemView(item))
}

// handleUpdateShelfItem updates status, dates, rating, and review.
func handleUpdateShelfItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		Status         string  `json:"status"`
		DateOpened     string  `json:"date_opened"`
		ExpirationDate string  `json:"expiration_date"`
		Rating         float64 `json:"rating"`
		Review         string  `json:"review"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	item, err := orchestrators.ExecuteUpdateShelfItem(r.Context(), orchestrators.UpdateShelfItemInput{
		UserID:         sess.AccountID,
		ItemID:         r.PathValue("id"),
		Status:         input.Status,
		DateOpened:     input.DateOpened,
		ExpirationDate: input.ExpirationDate,
		Rating:         input.Rating,
		Review:         input.Review,
	}, shelfDeps())
	if err != nil {
		writeShelfError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShelfItemView(item))
}

// handleFinishShelfItem marks a product as used up.
func handleFinishShelfItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	item, err := orchestrators.ExecuteFinishShelfItem(r.Context(), orchestrators.FinishShelfItemInput{
		UserID: sess.AccountID,
		ItemID: r.PathValue("id"),
	}, shelfDeps())
	if err != nil {
		writeShelfError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toShelfItemView(item))
}

// handleRemoveFromShelf deletes a shelf row. The catalog product stays.
func handleRemoveFromShelf(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	if err := orchestrators.ExecuteRemoveFromShelf(r.Context(), sess.AccountID, r.PathValue("id"), shelfDeps()); err != nil {
		writeShelfError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

func shelfDeps() orchestrators.ShelfDeps {
	return orchestrators.ShelfDeps{
		ShelfStore: stores.ShelfStore,
		GenerateID: generateID,
		Now:        timeNow,
	}
}

// writeShelfError maps shelf orchestrator errors onto HTTP statuses.
func writeShelfError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orchestrators.ErrShelfItemNotOwned):
		errorJSON(w, http.StatusForbidden, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		errorJSON(w, http.StatusNotFound, "shelf item not found")
	case errors.Is(err, shelfitem.ErrInvalidStatus),
		errors.Is(err, shelfitem.ErrInvalidRating),
		errors.Is(err, shelfitem.ErrEmptyProductID),
		errors.Is(err, shelfitem.ErrAlreadyFinished):
		errorJSON(w, http.StatusBadRequest, err.Error())
	default:
		internalError(w, err)
	}
}
