package storage

import (
	"database/sql"
	"sort"
	"strings"
	"testing"

	_ "modernc.org/sqlite"
)

// openTestDB creates an in-memory SQLite database for testing.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// getTableNames returns sorted table names from sqlite_master, excluding internal tables.
func getTableNames(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			t.Fatalf("failed to scan table name: %v", err)
		}
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// getTableSQL returns sorted CREATE TABLE statements from sqlite_master.
func getTableSQL(t *testing.T, db *sql.DB) []string {
	t.Helper()
	rows, err := db.Query("SELECT sql FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%' AND sql IS NOT NULL ORDER BY name")
	if err != nil {
		t.Fatalf("failed to query sqlite_master: %v", err)
	}
	defer rows.Close()

	var sqls []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			t.Fatalf("failed to scan sql: %v", err)
		}
		sqls = append(sqls, normalizeSQL(s))
	}
	sort.Strings(sqls)
	return sqls
}

// normalizeSQL collapses whitespace for comparison.
func normalizeSQL(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// expectedTables is the sorted list of tables after all migrations.
var expectedTables = []string{
	"account",
	"category",
	"company",
	"device_pref",
	"product",
	"routine",
	"routine_log",
	"routine_step",
	"schema_version",
	"user_product",
	"users",
}

// TestMigrateDB_Fresh verifies all migrations apply cleanly to an empty database.
func TestMigrateDB_Fresh(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed on fresh db: %v", err)
	}

	// Verify version
	version, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if version != LatestSchemaVersion() {
		t.Errorf("version = %d, want %d", version, LatestSchemaVersion())
	}

	// Verify all expected tables exist
	tables := getTableNames(t, db)
	if len(tables) != len(expectedTables) {
		t.Errorf("got %d tables, want %d\ngot:  %v\nwant: %v", len(tables), len(expectedTables), tables, expectedTables)
	}
	for i, want := range expectedTables {
		if i >= len(tables) {
			t.Errorf("missing table: %s", want)
			continue
		}
		if tables[i] != want {
			t.Errorf("table[%d] = %q, want %q", i, tables[i], want)
		}
	}
}

// TestMigrateDB_Idempotent verifies that running MigrateDB twice produces no errors
// and the version remains the same.
func TestMigrateDB_Idempotent(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("first MigrateDB failed: %v", err)
	}

	version1, _ := SchemaVersion(db)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}

	version2, _ := SchemaVersion(db)
	if version1 != version2 {
		t.Errorf("version changed after idempotent run: %d → %d", version1, version2)
	}
}

// TestMigrateDB_SchemaDrift verifies that the migration chain produces the exact same
// schema as a golden snapshot. This catches cases where someone modifies a migration
// function without updating the expected output.
func TestMigrateDB_SchemaDrift(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}

	// Build golden snapshot from current migrations
	golden := getTableSQL(t, db)

	// Apply migrations to a second fresh database
	db2 := openTestDB(t)
	if err := MigrateDB(db2, ":memory:"); err != nil {
		t.Fatalf("MigrateDB (second) failed: %v", err)
	}

	actual := getTableSQL(t, db2)

	if len(golden) != len(actual) {
		t.Fatalf("schema drift: golden has %d tables, actual has %d", len(golden), len(actual))
	}

	for i := range golden {
		if golden[i] != actual[i] {
			t.Errorf("schema drift at table %d:\ngolden: %s\nactual: %s", i, golden[i], actual[i])
		}
	}
}

// TestMigrateDB_DataSurvival verifies that existing data survives migration.
func TestMigrateDB_DataSurvival(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}

	// Insert test data
	_, err := db.Exec(`INSERT INTO users (id, email, created_at, updated_at) VALUES ('u1', 'test@test.com', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	if err != nil {
		t.Fatalf("failed to insert test user: %v", err)
	}
	_, err = db.Exec(`INSERT INTO routine (id, user_id, type, created_at, updated_at) VALUES ('r1', 'u1', 'AM', '2026-01-01T00:00:00Z', '2026-01-01T00:00:00Z')`)
	if err != nil {
		t.Fatalf("failed to insert test routine: %v", err)
	}

	// Run MigrateDB again (should be no-op since we're at latest)
	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("second MigrateDB failed: %v", err)
	}

	// Verify data survived
	var email string
	if err := db.QueryRow("SELECT email FROM users WHERE id = 'u1'").Scan(&email); err != nil {
		t.Fatalf("user data lost after migration: %v", err)
	}
	if email != "test@test.com" {
		t.Errorf("user email = %q, want %q", email, "test@test.com")
	}

	var rtype string
	if err := db.QueryRow("SELECT type FROM routine WHERE id = 'r1'").Scan(&rtype); err != nil {
		t.Fatalf("routine data lost after migration: %v", err)
	}
	if rtype != "AM" {
		t.Errorf("routine type = %q, want %q", rtype, "AM")
	}
}

// TestMigrateDB_VersionProgression verifies that SchemaVersion reports 0 before
// migration and the correct version after.
func TestMigrateDB_VersionProgression(t *testing.T) {
	db := openTestDB(t)

	// Before any migration, version should be 0
	v, err := SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != 0 {
		t.Errorf("initial version = %d, want 0", v)
	}

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}

	v, err = SchemaVersion(db)
	if err != nil {
		t.Fatalf("SchemaVersion failed: %v", err)
	}
	if v != LatestSchemaVersion() {
		t.Errorf("post-migration version = %d, want %d", v, LatestSchemaVersion())
	}
}

// TestMigrateDB_UniqueLogTriple verifies the routine_log unique constraint used
// by the atomic upsert: a second insert for the same (user, routine, date)
// must violate the constraint rather than create a duplicate row.
func TestMigrateDB_UniqueLogTriple(t *testing.T) {
	db := openTestDB(t)

	if err := MigrateDB(db, ":memory:"); err != nil {
		t.Fatalf("MigrateDB failed: %v", err)
	}

	if _, err := db.Exec(`INSERT INTO users (id, email, created_at, updated_at) VALUES ('u1', 't@t.com', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("failed to insert user: %v", err)
	}
	if _, err := db.Exec(`INSERT INTO routine (id, user_id, type, created_at, updated_at) VALUES ('r1', 'u1', 'AM', '2024-01-01T00:00:00Z', '2024-01-01T00:00:00Z')`); err != nil {
		t.Fatalf("failed to insert routine: %v", err)
	}

	const ins = `INSERT INTO routine_log (id, user_id, routine_id, date, completed_steps, completed_at)
		VALUES (?, 'u1', 'r1', '2024-03-01', '[]', '2024-03-01T08:00:00Z')`
	if _, err := db.Exec(ins, "l1"); err != nil {
		t.Fatalf("first insert failed: %v", err)
	}
	if _, err := db.Exec(ins, "l2"); err == nil {
		t.Fatal("expected unique constraint violation for duplicate (user, routine, date)")
	}
}
