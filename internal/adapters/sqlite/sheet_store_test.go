package sqlite_test

import (
	"context"
	"testing"

	"github.com/example/tally/internal/adapters/sqlite"
)

func TestSheetStore_CreateAndGetView(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewSheetStore(db)
	ctx := context.Background()

	if err := store.CreateView(ctx, "alpha", "alpha", false); err != nil {
		t.Fatalf("CreateView failed: %v", err)
	}

	view, err := store.GetView(ctx, "alpha")
	if err != nil {
		t.Fatalf("GetView failed: %v", err)
	}
	if view == nil {
		t.Fatal("expected view, got nil")
	}
	if view.TeamID != "alpha" || view.Reserved {
		t.Errorf("unexpected view %+v", view)
	}
}

func TestSheetStore_GetView_Absent(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewSheetStore(db)

	view, err := store.GetView(context.Background(), "nope")
	if err != nil {
		t.Fatalf("GetView failed: %v", err)
	}
	if view != nil {
		t.Errorf("expected nil for absent view, got %+v", view)
	}
}

func TestSheetStore_ListViews(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewSheetStore(db)
	ctx := context.Background()
	seedView(t, db, "Template", true)
	seedView(t, db, "alpha", false)

	views, err := store.ListViews(ctx)
	if err != nil {
		t.Fatalf("ListViews failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("expected 2 views, got %d", len(views))
	}

	reserved := 0
	for _, v := range views {
		if v.Reserved {
			reserved++
		}
	}
	if reserved != 1 {
		t.Errorf("expected 1 reserved view, got %d", reserved)
	}
}

func TestSheetStore_WriteAndReadRows(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewSheetStore(db)
	ctx := context.Background()
	seedView(t, db, "alpha", false)

	rows := [][]string{
		{"S1", "Abbot", "Ben"},
		{"S2", "Young", "Ana"},
	}
	if err := store.WriteRows(ctx, "alpha", 3, rows); err != nil {
		t.Fatalf("WriteRows failed: %v", err)
	}

	got, err := store.ReadRows(ctx, "alpha", 3, 2, 3)
	if err != nil {
		t.Fatalf("ReadRows failed: %v", err)
	}
	if got[0][1] != "Abbot" || got[1][2] != "Ana" {
		t.Errorf("unexpected rows %v", got)
	}
}

func TestSheetStore_CellRoundTripAndSparseReads(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewSheetStore(db)
	ctx := context.Background()
	seedView(t, db, "alpha", false)

	if err := store.SetCell(ctx, "alpha", 4, 9, "tardy"); err != nil {
		t.Fatalf("SetCell failed: %v", err)
	}

	v, err := store.Cell(ctx, "alpha", 4, 9)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if v != "tardy" {
		t.Errorf("expected tardy, got %q", v)
	}

	// Unoccupied cells read as empty.
	v, err = store.Cell(ctx, "alpha", 100, 100)
	if err != nil {
		t.Fatalf("Cell failed: %v", err)
	}
	if v != "" {
		t.Errorf("expected empty, got %q", v)
	}
}

func TestSheetStore_NotePreservedAcrossValueWrites(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewSheetStore(db)
	ctx := context.Background()
	seedView(t, db, "alpha", false)

	if err := store.SetNote(ctx, "alpha", 4, 9, "Ms. Teacher | 2026-03-10 09:00:00"); err != nil {
		t.Fatalf("SetNote failed: %v", err)
	}
	if err := store.SetCell(ctx, "alpha", 4, 9, "tardy"); err != nil {
		t.Fatalf("SetCell failed: %v", err)
	}

	note, err := store.Note(ctx, "alpha", 4, 9)
	if err != nil {
		t.Fatalf("Note failed: %v", err)
	}
	if note != "Ms. Teacher | 2026-03-10 09:00:00" {
		t.Errorf("expected note preserved, got %q", note)
	}

	v, _ := store.Cell(ctx, "alpha", 4, 9)
	if v != "tardy" {
		t.Errorf("expected value preserved, got %q", v)
	}
}

func TestSheetStore_ClearFrom(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewSheetStore(db)
	ctx := context.Background()
	seedView(t, db, "alpha", false)

	if err := store.SetCell(ctx, "alpha", 0, 0, "header"); err != nil {
		t.Fatalf("SetCell failed: %v", err)
	}
	if err := store.SetCell(ctx, "alpha", 3, 0, "data"); err != nil {
		t.Fatalf("SetCell failed: %v", err)
	}

	if err := store.ClearFrom(ctx, "alpha", 3); err != nil {
		t.Fatalf("ClearFrom failed: %v", err)
	}

	header, _ := store.Cell(ctx, "alpha", 0, 0)
	if header != "header" {
		t.Errorf("expected header row kept, got %q", header)
	}
	data, _ := store.Cell(ctx, "alpha", 3, 0)
	if data != "" {
		t.Errorf("expected data row cleared, got %q", data)
	}
}

func TestSheetStore_Dimensions(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewSheetStore(db)
	ctx := context.Background()
	seedView(t, db, "alpha", false)

	rows, cols, err := store.Dimensions(ctx, "alpha")
	if err != nil {
		t.Fatalf("Dimensions failed: %v", err)
	}
	if rows != 0 || cols != 0 {
		t.Errorf("expected empty view, got %dx%d", rows, cols)
	}

	if err := store.SetCell(ctx, "alpha", 4, 13, "x"); err != nil {
		t.Fatalf("SetCell failed: %v", err)
	}
	rows, cols, err = store.Dimensions(ctx, "alpha")
	if err != nil {
		t.Fatalf("Dimensions failed: %v", err)
	}
	if rows != 5 || cols != 14 {
		t.Errorf("expected 5x14, got %dx%d", rows, cols)
	}
}

func TestSheetStore_Protections(t *testing.T) {
	db := setupTestDB(t)
	store := sqlite.NewSheetStore(db)
	ctx := context.Background()
	seedView(t, db, "alpha", false)

	if err := store.SetProtection(ctx, "alpha", 0, 8, "outside active week"); err != nil {
		t.Fatalf("SetProtection failed: %v", err)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM protections WHERE view_name = 'alpha'").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 protection, got %d", count)
	}

	if err := store.ClearProtections(ctx, "alpha"); err != nil {
		t.Fatalf("ClearProtections failed: %v", err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM protections WHERE view_name = 'alpha'").Scan(&count); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected protections cleared, got %d", count)
	}
}
