package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/tally/internal/adapters/sqlite"
	"github.com/example/tally/internal/ports/secondary"
)

func TestLedgerRepository_AppendAssignsIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewLedgerRepository(db)
	ctx := context.Background()

	events := []*secondary.LedgerEvent{
		{CreatedAt: "2026-03-10 09:00:00", SubjectID: "S1", Rank: "1st Offense", WeekLabel: "Mar 9, 2026"},
		{CreatedAt: "2026-03-10 09:00:00", SubjectID: "S1", Rank: "2nd Offense", WeekLabel: "Mar 9, 2026"},
	}
	if err := repo.Append(ctx, events); err != nil {
		t.Fatalf("Append failed: %v", err)
	}
	if events[0].ID == 0 || events[1].ID == 0 {
		t.Error("expected assigned IDs after append")
	}

	listed, err := repo.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(listed) != 2 {
		t.Fatalf("expected 2 events, got %d", len(listed))
	}
	if listed[0].AlertedAt != "" {
		t.Errorf("expected empty alert marker, got %q", listed[0].AlertedAt)
	}
}

func TestLedgerRepository_DuplicateKeyRejected(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewLedgerRepository(db)
	ctx := context.Background()
	seedLedgerEvent(t, db, "S1", "5th Offense", "Mar 9, 2026")

	err := repo.Append(ctx, []*secondary.LedgerEvent{
		{CreatedAt: "2026-03-11 09:00:00", SubjectID: "S1", Rank: "5th Offense", WeekLabel: "Mar 9, 2026"},
	})
	if err == nil {
		t.Fatal("expected unique constraint violation for duplicate key")
	}

	// The failed batch must not leave partial rows behind.
	listed, _ := repo.List(ctx)
	if len(listed) != 1 {
		t.Errorf("expected 1 event after rejected duplicate, got %d", len(listed))
	}
}

func TestLedgerRepository_UpdateSourceValue(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewLedgerRepository(db)
	ctx := context.Background()
	ev := seedLedgerEvent(t, db, "S1", "1st Offense", "Mar 9, 2026")

	if err := repo.UpdateSourceValue(ctx, ev.ID, "tardy, phone"); err != nil {
		t.Fatalf("UpdateSourceValue failed: %v", err)
	}

	listed, _ := repo.List(ctx)
	if listed[0].SourceValue != "tardy, phone" {
		t.Errorf("expected updated value, got %q", listed[0].SourceValue)
	}
	if listed[0].Snapshot != ev.Snapshot {
		t.Error("expected snapshot untouched by value update")
	}
}

func TestLedgerRepository_UpdateSourceValue_NotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewLedgerRepository(db)

	if err := repo.UpdateSourceValue(context.Background(), 999, "x"); err == nil {
		t.Fatal("expected error for unknown event")
	}
}

func TestLedgerRepository_MarkAlerted(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewLedgerRepository(db)
	ctx := context.Background()
	ev := seedLedgerEvent(t, db, "S1", "5th Offense", "Mar 9, 2026")

	if err := repo.MarkAlerted(ctx, ev.ID, "2026-03-10 09:30:00"); err != nil {
		t.Fatalf("MarkAlerted failed: %v", err)
	}

	listed, _ := repo.List(ctx)
	if listed[0].AlertedAt != "2026-03-10 09:30:00" {
		t.Errorf("expected alert marker stamped, got %q", listed[0].AlertedAt)
	}
}

func TestLedgerRepository_Counts(t *testing.T) {
	db := setupTestDB(t)
	repo := sqlite.NewLedgerRepository(db)
	ctx := context.Background()
	seedLedgerEvent(t, db, "S1", "5th Offense", "Mar 2, 2026")
	seedLedgerEvent(t, db, "S1", "5th Offense", "Mar 9, 2026")
	seedLedgerEvent(t, db, "S1", "1st Offense", "Mar 9, 2026")
	seedLedgerEvent(t, db, "S2", "1st Offense", "Mar 9, 2026")

	total, err := repo.CountBySubject(ctx, "S1")
	if err != nil {
		t.Fatalf("CountBySubject failed: %v", err)
	}
	if total != 3 {
		t.Errorf("expected 3 events for S1, got %d", total)
	}

	terminals, err := repo.CountBySubjectRank(ctx, "S1", "5th Offense")
	if err != nil {
		t.Fatalf("CountBySubjectRank failed: %v", err)
	}
	if terminals != 2 {
		t.Errorf("expected 2 terminal events for S1, got %d", terminals)
	}
}
