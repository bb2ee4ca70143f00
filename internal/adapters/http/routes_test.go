package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"glow/internal/adapters/http/perf"
)

// newTestServer builds the full handler chain over mock stores. The rate
// limit is raised so sequential test requests from one IP never trip it.
func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	RateLimitPerSecond = 1000
	return NewMux(newFullStores(), perf.NewCollector(256))
}

// TestMux_HealthEndpoint tests the liveness probe through the full chain.
func TestMux_HealthEndpoint(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest("GET", "/api/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("got %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("security headers not applied, got %q", got)
	}
}

// TestMux_BearerTokenFlow registers through the mux and then uses the
// returned token as an Authorization header, the way mobile clients do.
func TestMux_BearerTokenFlow(t *testing.T) {
	h := newTestServer(t)

	body := `{"email":"mia@test.com","password":"longenough1"}`
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("register: got %d, want %d. Body: %s", rec.Code, http.StatusCreated, rec.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)
	if resp.Token == "" {
		t.Fatal("no token returned")
	}

	req = httptest.NewRequest("GET", "/api/routines/pm", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("routine fetch: got %d, want %d. Body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var r routineView
	json.NewDecoder(rec.Body).Decode(&r)
	if r.Type != "PM" {
		t.Errorf("got type %q, want PM", r.Type)
	}
}

// TestMux_ProtectedRouteWithoutToken tests a 401 through the full chain.
func TestMux_ProtectedRouteWithoutToken(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest("GET", "/api/shelf", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("got %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

// TestMux_AdminStatusRequiresRole tests the role gate on the status route.
func TestMux_AdminStatusRequiresRole(t *testing.T) {
	h := newTestServer(t)

	body := `{"email":"mia@test.com","password":"longenough1"}`
	req := httptest.NewRequest("POST", "/api/auth/register", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	var resp struct {
		Token string `json:"token"`
	}
	json.NewDecoder(rec.Body).Decode(&resp)

	req = httptest.NewRequest("GET", "/api/admin/status", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusForbidden {
		t.Errorf("got %d, want %d", rec.Code, http.StatusForbidden)
	}
}

// TestMux_MethodNotAllowed tests the mux's method matching.
func TestMux_MethodNotAllowed(t *testing.T) {
	h := newTestServer(t)
	req := httptest.NewRequest("DELETE", "/api/health", nil)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("got %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
