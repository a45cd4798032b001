package primary

import "context"

// LogEntry is one line of the diagnostic record.
type LogEntry struct {
	ID        int64
	CreatedAt string
	Actor     string
	Category  string
	Message   string
}

// LogService exposes the bounded diagnostic record.
type LogService interface {
	ListLogs(ctx context.Context, limit int) ([]*LogEntry, error)
	// Prune trims the record to the configured maximum entry count and
	// returns the number of entries removed.
	Prune(ctx context.Context) (int, error)
}
