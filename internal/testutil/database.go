package testutil

import (
	"database/sql"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	_ "github.com/lib/pq"
)

// Tables in FK-safe truncation order
var tables = []string{
	"careconnect.notifications",
	"careconnect.medications",
	"careconnect.tasks",
	"careconnect.checkin_logs",
	"careconnect.hydration_logs",
	"careconnect.nutrition_logs",
	"careconnect.caregiver_patients",
	"careconnect.family_patients",
	"careconnect.users",
}

// SetupTestDB connects to the database named by TEST_DATABASE_URL, applies
// the schema and truncates all tables. Tests are skipped when the variable
// is unset.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping integration test")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	if err := db.Ping(); err != nil {
		t.Fatalf("Failed to ping test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	applySchema(t, db)
	truncateAll(t, db)

	return db
}

func applySchema(t *testing.T, db *sql.DB) {
	t.Helper()

	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to locate schema file")
	}
	schemaPath := filepath.Join(filepath.Dir(thisFile), "..", "..", "scripts", "schema.sql")

	schema, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatalf("Failed to read schema %s: %v", schemaPath, err)
	}

	if _, err := db.Exec(string(schema)); err != nil {
		t.Fatalf("Failed to apply schema: %v", err)
	}
}

func truncateAll(t *testing.T, db *sql.DB) {
	t.Helper()

	for _, table := range tables {
		if _, err := db.Exec("TRUNCATE TABLE " + table + " CASCADE"); err != nil {
			t.Fatalf("Failed to truncate %s: %v", table, err)
		}
	}
}
