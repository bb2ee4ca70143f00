package web

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"glow/internal/application/orchestrators"
	"glow/internal/domain/routine"
	"glow/internal/domain/routinelog"
)

// handleGetRoutine returns the user's AM or PM routine, creating an empty
// one on first access. Legacy step IDs are migrated in the same request so
// every response carries canonical identifiers.
func handleGetRoutine(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	routineType := strings.ToUpper(r.PathValue("type"))

	result, err := orchestrators.ExecuteGetOrCreateRoutine(r.Context(), orchestrators.GetOrCreateRoutineInput{
		UserID: sess.AccountID,
		Email:  sess.Email,
		Type:   routineType,
	}, orchestrators.GetOrCreateRoutineDeps{
		RoutineStore: stores.RoutineStore,
		UserStore:    stores.UserStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		if errors.Is(err, routine.ErrInvalidType) {
			errorJSON(w, http.StatusBadRequest, err.Error())
			return
		}
		internalError(w, err)
		return
	}

	migrated, err := orchestrators.ExecuteMigrateStepIDs(r.Context(), orchestrators.MigrateStepIDsInput{
		UserID:    sess.AccountID,
		RoutineID: result.ID,
	}, orchestrators.MigrateStepIDsDeps{
		RoutineStore: stores.RoutineStore,
		GenerateID:   generateID,
		Now:          timeNow,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	if migrated > 0 {
		result, err = stores.RoutineStore.GetByID(r.Context(), result.ID)
		if err != nil {
			internalError(w, err)
			return
		}
	}

	view := toRoutineView(result)
	attachStepImages(r, result, &view)
	writeJSON(w, http.StatusOK, view)
}

// attachStepImages decorates steps with the image of the product they
// reference. Lookup failures leave the images blank rather than failing
// the routine fetch.
func attachStepImages(r *http.Request, rt routine.Routine, view *routineView) {
	var ids []string
	for _, s := range rt.Steps {
		if s.ProductID != "" {
			ids = append(ids, s.ProductID)
		}
	}
	if len(ids) == 0 {
		return
	}

	products, err := stores.ProductStore.GetByIDs(r.Context(), ids)
	if err != nil {
		return
	}
	images := make(map[string]string, len(products))
	for _, p := range products {
		images[p.ID] = p.ImageURL
	}
	for i := range view.Steps {
		view.Steps[i].ProductImageURL = images[view.Steps[i].ProductID]
	}
}

// handleAddStep appends a step to the routine.
func handleAddStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		ProductID   string `json:"product_id"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	step, err := orchestrators.ExecuteAddStep(r.Context(), orchestrators.AddStepInput{
		UserID:      sess.AccountID,
		RoutineID:   r.PathValue("id"),
		Name:        input.Name,
		Description: input.Description,
		ProductID:   input.ProductID,
	}, stepDeps())
	if err != nil {
		writeRoutineError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toStepView(step))
}

// handleRemoveStep deletes a step and compacts the remaining order.
func handleRemoveStep(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	err := orchestrators.ExecuteRemoveStep(r.Context(), orchestrators.RemoveStepInput{
		UserID:    sess.AccountID,
		RoutineID: r.PathValue("id"),
		StepID:    r.PathValue("stepID"),
	}, stepDeps())
	if err != nil {
		writeRoutineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}

// handleReorderSteps rewrites step order from an explicit permutation of
// the routine's current step IDs.
func handleReorderSteps(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		StepIDs []string `json:"step_ids"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err := orchestrators.ExecuteReorderSteps(r.Context(), orchestrators.ReorderStepsInput{
		UserID:    sess.AccountID,
		RoutineID: r.PathValue("id"),
		StepIDs:   input.StepIDs,
	}, stepDeps())
	if err != nil {
		writeRoutineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reordered"})
}

// handleGetLog returns the completion log for one day. ?date=YYYY-MM-DD,
// defaulting to today. Days without a log return an empty step list.
func handleGetLog(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	l, err := orchestrators.ExecuteGetLog(r.Context(), orchestrators.GetLogInput{
		UserID:    sess.AccountID,
		RoutineID: r.PathValue("id"),
		Date:      r.URL.Query().Get("date"),
	}, logDeps())
	if err != nil {
		writeRoutineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLogView(l))
}

// handleSaveLog replaces the completed-step set for one day.
func handleSaveLog(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	var input struct {
		Date           string   `json:"date"`
		CompletedSteps []string `json:"completed_steps"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := orchestrators.ExecuteSaveLog(r.Context(), orchestrators.SaveLogInput{
		UserID:         sess.AccountID,
		RoutineID:      r.PathValue("id"),
		Date:           input.Date,
		CompletedSteps: input.CompletedSteps,
	}, logDeps())
	if err != nil {
		writeRoutineError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toLogView(l))
}

// handleLoggedDayCount reports how many distinct days the user has logged
// at least one completed routine.
func handleLoggedDayCount(w http.ResponseWriter, r *http.Request) {
	sess, ok := requireSession(w, r)
	if !ok {
		return
	}

	count, err := orchestrators.ExecuteLoggedDayCount(r.Context(), sess.AccountID, logDeps())
	if err != nil {
		internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"logged_days": count})
}

func stepDeps() orchestrators.StepDeps {
	return orchestrators.StepDeps{
		RoutineStore: stores.RoutineStore,
		LogStore:     stores.LogStore,
		GenerateID:   generateID,
		Now:          timeNow,
	}
}

func logDeps() orchestrators.LogDeps {
	return orchestrators.LogDeps{
		LogStore:     stores.LogStore,
		RoutineStore: stores.RoutineStore,
		GenerateID:   generateID,
		Now:          timeNow,
	}
}

// writeRoutineError maps routine orchestrator errors onto HTTP statuses.
func writeRoutineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, orchestrators.ErrRoutineNotOwned):
		errorJSON(w, http.StatusForbidden, err.Error())
	case errors.Is(err, sql.ErrNoRows):
		errorJSON(w, http.StatusNotFound, "routine not found")
	case errors.Is(err, routine.ErrStepNotFound):
		errorJSON(w, http.StatusNotFound, err.Error())
	case errors.Is(err, routine.ErrEmptyStepName),
		errors.Is(err, routine.ErrNotAPermutation),
		errors.Is(err, routinelog.ErrInvalidDate):
		errorJSON(w, http.StatusBadRequest, err.Error())
	default:
		internalError(w, err)
	}
}
