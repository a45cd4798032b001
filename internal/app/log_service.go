package app

import (
	"context"
	"fmt"

	"github.com/example/tally/internal/ports/primary"
	"github.com/example/tally/internal/ports/secondary"
)

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	audit      secondary.AuditLog
	maxEntries int
}

// NewLogService creates a new LogService bounded at maxEntries.
func NewLogService(audit secondary.AuditLog, maxEntries int) *LogServiceImpl {
	return &LogServiceImpl{audit: audit, maxEntries: maxEntries}
}

// ListLogs returns the most recent diagnostic entries, newest first.
func (s *LogServiceImpl) ListLogs(ctx context.Context, limit int) ([]*primary.LogEntry, error) {
	records, err := s.audit.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}

	entries := make([]*primary.LogEntry, len(records))
	for i, r := range records {
		entries[i] = &primary.LogEntry{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			Actor:     r.Actor,
			Category:  r.Category,
			Message:   r.Message,
		}
	}
	return entries, nil
}

// Prune trims the record to the configured maximum entry count.
func (s *LogServiceImpl) Prune(ctx context.Context) (int, error) {
	removed, err := s.audit.PruneToLimit(ctx, s.maxEntries)
	if err != nil {
		return 0, fmt.Errorf("failed to prune log: %w", err)
	}
	return removed, nil
}

// Ensure LogServiceImpl implements the interface
var _ primary.LogService = (*LogServiceImpl)(nil)
