package web

import (
	"crypto/rand"
	"encoding/hex"
	"log"
	"net/http"
	"os"
	"time"

	"glow/internal/adapters/email"
	"glow/internal/adapters/http/middleware"
	"glow/internal/adapters/http/perf"
	accountStore "glow/internal/adapters/storage/account"
	categoryStore "glow/internal/adapters/storage/category"
	companyStore "glow/internal/adapters/storage/company"
	devicePrefStore "glow/internal/adapters/storage/devicepref"
	productStore "glow/internal/adapters/storage/product"
	routineStore "glow/internal/adapters/storage/routine"
	routineLogStore "glow/internal/adapters/storage/routinelog"
	shelfItemStore "glow/internal/adapters/storage/shelfitem"
	userStore "glow/internal/adapters/storage/user"
)

// Stores holds all storage dependencies.
type Stores struct {
	AccountStore    accountStore.Store
	UserStore       userStore.Store
	CompanyStore    companyStore.Store
	CategoryStore   categoryStore.Store
	ProductStore    productStore.Store
	ShelfStore      shelfItemStore.Store
	RoutineStore    routineStore.Store
	LogStore        routineLogStore.Store
	DevicePrefStore devicePrefStore.Store
}

// loadCSRFKey reads the CSRF secret from GLOW_CSRF_KEY (hex-encoded, 32 bytes).
// In production, the key MUST be set. In development, a random key is generated per startup.
func loadCSRFKey() []byte {
	if keyHex := os.Getenv("GLOW_CSRF_KEY"); keyHex != "" {
		key, err := hex.DecodeString(keyHex)
		if err != nil || len(key) != 32 {
			log.Fatal("GLOW_CSRF_KEY must be 64 hex characters (32 bytes)")
		}
		return key
	}
	if os.Getenv("GLOW_ENV") == "production" {
		log.Fatal("GLOW_CSRF_KEY is required in production")
	}
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		log.Fatalf("failed to generate CSRF key: %v", err)
	}
	log.Println("WARNING: using random CSRF key (sessions won't survive restart). Set GLOW_CSRF_KEY for production.")
	return key
}

// Global stores instance (set by NewMux)
var stores *Stores

// Global session store instance
var sessions *middleware.SessionStore

// RateLimitPerSecond controls the per-IP rate limit. Tests can increase this.
var RateLimitPerSecond = 10

// Global perf collector (set by NewMux)
var perfCollector *perf.Collector

// Global email sender instance (set by SetEmailSender)
var emailSender email.Sender

// SetEmailSender sets the global email sender for the application.
func SetEmailSender(sender email.Sender) {
	emailSender = sender
}

// NewMux wires HTTP handlers for the app.
func NewMux(s *Stores, collector *perf.Collector) http.Handler {
	stores = s
	perfCollector = collector
	sessions = middleware.NewSessionStore()
	middleware.SecureCookies = os.Getenv("GLOW_ENV") == "production"

	mux := http.NewServeMux()
	registerRoutes(mux)

	// CSRF key: 32-byte hex-encoded secret from env var
	csrfKey := loadCSRFKey()

	// Rate limiter: configurable requests per second per IP
	limiter := middleware.NewRateLimiter(RateLimitPerSecond, time.Second)

	// Apply middleware: SecurityHeaders -> CSRF -> Auth -> RateLimit -> Timing -> Mux
	return middleware.Chain(mux,
		middleware.SecurityHeaders,
		middleware.CSRF(csrfKey),
		middleware.Auth(sessions),
		middleware.RateLimit(limiter),
		middleware.Timing(collector),
	)
}
