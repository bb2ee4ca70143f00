package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"

	_ "modernc.org/sqlite"

	emailPkg "glow/internal/adapters/email"
	web "glow/internal/adapters/http"
	"glow/internal/adapters/http/perf"
	"glow/internal/adapters/storage"
	accountStore "glow/internal/adapters/storage/account"
	categoryStore "glow/internal/adapters/storage/category"
	companyStore "glow/internal/adapters/storage/company"
	devicePrefStore "glow/internal/adapters/storage/devicepref"
	productStore "glow/internal/adapters/storage/product"
	routineStore "glow/internal/adapters/storage/routine"
	routineLogStore "glow/internal/adapters/storage/routinelog"
	shelfItemStore "glow/internal/adapters/storage/shelfitem"
	userStore "glow/internal/adapters/storage/user"
	"glow/internal/application/orchestrators"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	// Initialize database with WAL mode, foreign keys, and busy timeout
	dbPath := envOrDefault("GLOW_DB", "glow.db")
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	defer db.Close()

	// Connection pool settings for WAL mode
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)

	if err := db.Ping(); err != nil {
		log.Fatalf("database unreachable: %v", err)
	}

	if err := storage.MigrateDB(db, dbPath); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Performance instrumentation: wrap DB with timing, create collector
	collector := perf.NewCollector(perf.DefaultRingSize)
	timedDB := storage.NewTimedDB(db, collector)

	acctStore := accountStore.NewSQLiteStore(timedDB)
	catStore := categoryStore.NewSQLiteStore(timedDB)
	coStore := companyStore.NewSQLiteStore(timedDB)
	prodStore := productStore.NewSQLiteStore(timedDB)
	stores := &web.Stores{
		AccountStore:    acctStore,
		UserStore:       userStore.NewSQLiteStore(timedDB),
		CompanyStore:    coStore,
		CategoryStore:   catStore,
		ProductStore:    prodStore,
		ShelfStore:      shelfItemStore.NewSQLiteStore(timedDB),
		RoutineStore:    routineStore.NewSQLiteStore(timedDB),
		LogStore:        routineLogStore.NewSQLiteStore(timedDB),
		DevicePrefStore: devicePrefStore.NewSQLiteStore(timedDB),
	}

	// Seed default admin account if no accounts exist
	adminEmail := envOrDefault("GLOW_ADMIN_EMAIL", "hello@glowskincare.app")
	adminPassword := envOrDefault("GLOW_ADMIN_PASSWORD", "Glossy ceramide")
	seedDeps := orchestrators.CreateAccountDeps{AccountStore: acctStore}
	if err := orchestrators.ExecuteSeedAdmin(context.Background(), seedDeps, adminEmail, adminPassword); err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}

	// Seed the category vocabulary plus, outside production, a small demo catalog
	seedCatDeps := orchestrators.SeedCatalogDeps{
		CategoryStore: catStore,
		ProductStore:  prodStore,
		CompanyStore:  coStore,
		SeedDemoData:  os.Getenv("GLOW_ENV") != "production",
	}
	if err := orchestrators.ExecuteSeedCatalog(context.Background(), seedCatDeps); err != nil {
		log.Fatalf("failed to seed catalog: %v", err)
	}

	// Configure email sender
	resendKey := os.Getenv("GLOW_RESEND_KEY")
	emailFrom := envOrDefault("GLOW_RESEND_FROM", "Glow <hello@glowskincare.app>")
	if resendKey != "" {
		web.SetEmailSender(emailPkg.NewResendSender(resendKey, emailFrom))
		log.Println("Email sender configured (Resend)")
	} else {
		web.SetEmailSender(emailPkg.NewNoopSender())
		if os.Getenv("GLOW_ENV") == "production" {
			log.Println("WARNING: GLOW_RESEND_KEY is not set — email delivery is DISABLED in production")
		} else {
			log.Println("Email sender configured (noop — set GLOW_RESEND_KEY for real delivery)")
		}
	}

	mux := web.NewMux(stores, collector)

	addr := envOrDefault("GLOW_ADDR", ":8080")
	log.Printf("Glow %s starting on %s (env=%s, schema=%d)", version, addr, envOrDefault("GLOW_ENV", "development"), storage.LatestSchemaVersion())

	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
