package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"glow/internal/adapters/http/middleware"
	"glow/internal/application/orchestrators"
)

// timeNow is a variable for testability.
var timeNow = time.Now

// mdRenderer is a goldmark instance configured for safe HTML output.
// Raw HTML in markdown input is escaped (WithUnsafe is NOT set), preventing XSS.
var mdRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

// generateID creates a new UUID string.
func generateID() string {
	return uuid.New().String()
}

// renderMarkdown converts markdown to sanitised HTML. Used for ingredient
// lists and step descriptions, which accept light formatting.
func renderMarkdown(md string) string {
	if md == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(md), &buf); err != nil {
		return ""
	}
	return buf.String()
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write_json_failed", "error", err.Error())
	}
}

// errorJSON writes a JSON error body with the given status code.
func errorJSON(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// internalError logs the real error and returns a generic message to the client.
// This prevents leaking internal details per OWASP A05.
func internalError(w http.ResponseWriter, err error) {
	slog.Error("internal_error", "error", err.Error())
	errorJSON(w, http.StatusInternalServerError, "internal server error")
}

// strictDecode decodes JSON from the request body, rejecting unknown fields.
func strictDecode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// requireSession returns the session or writes a 401. Routes behind this
// helper are registered without RequireAuth so they can give JSON errors
// with handler-specific context.
func requireSession(w http.ResponseWriter, r *http.Request) (middleware.Session, bool) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		errorJSON(w, http.StatusUnauthorized, "authentication required")
	}
	return sess, ok
}

// deviceKey returns the per-install device identifier, or "" when absent.
func deviceKey(r *http.Request) string {
	return r.Header.Get(middleware.DeviceKeyHeader)
}

// registerRoutes wires all API routes onto the mux.
func registerRoutes(mux *http.ServeMux) {
	// Health and operational status
	mux.HandleFunc("GET /api/health", handleHealth)
	mux.Handle("GET /api/admin/status", middleware.RequireRole("admin")(http.HandlerFunc(handleAdminStatus)))

	// Auth
	mux.HandleFunc("POST /api/auth/register", handleRegister)
	mux.HandleFunc("POST /api/auth/login", handleLogin)
	mux.HandleFunc("POST /api/auth/logout", handleLogout)
	mux.HandleFunc("GET /api/auth/session", handleSession)

	// Onboarding (pre-auth, keyed by device)
	mux.HandleFunc("GET /api/onboarding/status", handleOnboardingStatus)
	mux.HandleFunc("POST /api/onboarding/profile", handleOnboardingProfile)
	mux.HandleFunc("POST /api/onboarding/complete", handleOnboardingComplete)

	// Profile
	mux.HandleFunc("GET /api/profile", handleGetProfile)
	mux.HandleFunc("PUT /api/profile", handleUpdateProfile)

	// Catalog
	mux.HandleFunc("GET /api/products", handleListProducts)
	mux.HandleFunc("POST /api/products", handleAddProduct)
	mux.HandleFunc("GET /api/products/{id}", handleGetProduct)
	mux.HandleFunc("GET /api/categories", handleListCategories)
	mux.HandleFunc("GET /api/companies", handleListCompanies)

	// Shelf
	mux.HandleFunc("GET /api/shelf", handleListShelf)
	mux.HandleFunc("POST /api/shelf", handleAddToShelf)
	mux.HandleFunc("PUT /api/shelf/{id}", handleUpdateShelfItem)
	mux.HandleFunc("POST /api/shelf/{id}/finish", handleFinishShelfItem)
	mux.HandleFunc("DELETE /api/shelf/{id}", handleRemoveFromShelf)

	// Routines and steps
	mux.HandleFunc("GET /api/routines/{type}", handleGetRoutine)
	mux.HandleFunc("POST /api/routines/{id}/steps", handleAddStep)
	mux.HandleFunc("DELETE /api/routines/{id}/steps/{stepID}", handleRemoveStep)
	mux.HandleFunc("PUT /api/routines/{id}/steps/order", handleReorderSteps)

	// Completion logs
	mux.HandleFunc("GET /api/routines/{id}/log", handleGetLog)
	mux.HandleFunc("PUT /api/routines/{id}/log", handleSaveLog)
	mux.HandleFunc("GET /api/stats/days", handleLoggedDayCount)
}

// handleHealth answers liveness probes.
func handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAdminStatus reports aggregated request and query timings.
func handleAdminStatus(w http.ResponseWriter, r *http.Request) {
	if perfCollector == nil {
		errorJSON(w, http.StatusServiceUnavailable, "no collector configured")
		return
	}
	snap := perfCollector.Snapshot(timeNow().Add(-1*time.Hour), 10)
	writeJSON(w, http.StatusOK, snap)
}

// handleRegister creates an account plus profile row, applying any skin
// profile staged on the device during onboarding.
func handleRegister(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := orchestrators.ExecuteRegisterUser(r.Context(), orchestrators.RegisterUserInput{
		Email:     input.Email,
		Password:  input.Password,
		DeviceKey: deviceKey(r),
	}, orchestrators.RegisterUserDeps{
		AccountStore: stores.AccountStore,
		UserStore:    stores.UserStore,
		DevicePrefs:  stores.DevicePrefStore,
		EmailSender:  emailSender,
		Now:          timeNow,
	})
	if err != nil {
		if err == orchestrators.ErrEmailAlreadyExists {
			errorJSON(w, http.StatusConflict, err.Error())
			return
		}
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, "user")
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"account": map[string]string{
			"id":        result.AccountID,
			"email":     result.Email,
			"skin_type": result.SkinType,
		},
	})
}

// handleLogin validates credentials and opens a session.
func handleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := strictDecode(r, &input); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := orchestrators.ExecuteLogin(r.Context(), orchestrators.LoginInput{
		Email:    input.Email,
		Password: input.Password,
	}, orchestrators.LoginDeps{AccountStore: stores.AccountStore})
	if err != nil {
		status := http.StatusUnauthorized
		if err == orchestrators.ErrAccountLocked {
			status = http.StatusTooManyRequests
		}
		errorJSON(w, status, err.Error())
		return
	}

	token, err := sessions.Create(result.AccountID, result.Email, result.Role)
	if err != nil {
		internalError(w, err)
		return
	}
	middleware.SetSessionCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"account": map[string]string{
			"id":    result.AccountID,
			"email": result.Email,
			"role":  result.Role,
		},
	})
}

// handleLogout invalidates the current session.
func handleLogout(w http.ResponseWriter, r *http.Request) {
	if token := middleware.TokenFromRequest(r); token != "" {
		sessions.Delete(token)
	}
	middleware.ClearSessionCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "signed out"})
}

// handleSession reports the current session, if any.
func handleSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.GetSessionFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"account": map[string]string{
			"id":    sess.AccountID,
			"email": sess.Email,
			"role":  sess.Role,
		},
	})
}
