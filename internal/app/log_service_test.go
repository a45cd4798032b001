package app

import (
	"context"
	"fmt"
	"testing"
)

func TestListLogsNewestFirst(t *testing.T) {
	audit := newMockAudit()
	for i := 1; i <= 3; i++ {
		if err := audit.Record(context.Background(), "sync", fmt.Sprintf("entry %d", i)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	svc := NewLogService(audit, 10)

	entries, err := svc.ListLogs(context.Background(), 2)
	if err != nil {
		t.Fatalf("ListLogs failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Message != "entry 3" || entries[1].Message != "entry 2" {
		t.Errorf("expected newest first, got %q then %q", entries[0].Message, entries[1].Message)
	}
}

func TestPruneTrimsToConfiguredLimit(t *testing.T) {
	audit := newMockAudit()
	for i := 1; i <= 5; i++ {
		if err := audit.Record(context.Background(), "sync", fmt.Sprintf("entry %d", i)); err != nil {
			t.Fatalf("Record failed: %v", err)
		}
	}
	svc := NewLogService(audit, 3)

	removed, err := svc.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 2 {
		t.Errorf("expected 2 removed, got %d", removed)
	}
	if len(audit.entries) != 3 {
		t.Errorf("expected 3 entries kept, got %d", len(audit.entries))
	}
}
