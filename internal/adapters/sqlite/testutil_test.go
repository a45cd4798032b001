// Package sqlite_test contains integration tests for SQLite repositories.
//
// This file is the SINGLE POINT where the database schema is loaded for
// tests. All test setup functions use db.GetSchemaSQL() so tests run
// against the authoritative schema, preventing drift between test and
// production. DO NOT hardcode CREATE TABLE statements in test files; use
// setupTestDB() and the seed* helpers.
package sqlite_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/example/tally/internal/adapters/sqlite"
	"github.com/example/tally/internal/db"
	"github.com/example/tally/internal/ports/secondary"
)

// setupTestDB creates an in-memory database with the authoritative schema.
// This is the single shared test database setup function for all
// repository tests.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	testDB, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if _, err := testDB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	// Use the authoritative schema from schema.go
	if _, err := testDB.Exec(db.GetSchemaSQL()); err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}

	t.Cleanup(func() {
		testDB.Close()
	})

	return testDB
}

// seedView inserts a view row and returns its name.
func seedView(t *testing.T, db *sql.DB, name string, reserved bool) string {
	t.Helper()
	if name == "" {
		name = "alpha"
	}
	reservedInt := 0
	if reserved {
		reservedInt = 1
	}
	_, err := db.Exec(
		"INSERT INTO views (name, team_id, reserved) VALUES (?, ?, ?)",
		name, name, reservedInt,
	)
	if err != nil {
		t.Fatalf("failed to seed view: %v", err)
	}
	return name
}

// seedSubject inserts one directory subject.
func seedSubject(t *testing.T, db *sql.DB, id, last, first, grade, team string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO subjects (id, last_name, first_name, grade, team_id) VALUES (?, ?, ?, ?, ?)",
		id, last, first, grade, team,
	)
	if err != nil {
		t.Fatalf("failed to seed subject: %v", err)
	}
}

// seedStaff inserts one staff role row.
func seedStaff(t *testing.T, db *sql.DB, email, team, role string) {
	t.Helper()
	_, err := db.Exec(
		"INSERT INTO staff (email, name, team_id, role) VALUES (?, '', ?, ?)",
		email, team, role,
	)
	if err != nil {
		t.Fatalf("failed to seed staff: %v", err)
	}
}

// seedLedgerEvent appends one event through the repository and returns it
// with its assigned ID.
func seedLedgerEvent(t *testing.T, db *sql.DB, subjectID, rank, weekLabel string) *secondary.LedgerEvent {
	t.Helper()
	repo := sqlite.NewLedgerRepository(db)
	ev := &secondary.LedgerEvent{
		CreatedAt:   "2026-03-10 09:00:00",
		SubjectID:   subjectID,
		LastName:    "Abbot",
		FirstName:   "Ben",
		Grade:       "7",
		TeamID:      "alpha",
		Rank:        rank,
		WeekLabel:   weekLabel,
		Attribution: "Ms. Teacher",
		OriginView:  "alpha",
		SourceValue: "tardy",
		Snapshot:    `{"SubjectID":"` + subjectID + `"}`,
	}
	if err := repo.Append(context.Background(), []*secondary.LedgerEvent{ev}); err != nil {
		t.Fatalf("failed to seed ledger event: %v", err)
	}
	return ev
}
