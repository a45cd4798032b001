package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/tally/internal/ctxutil"
	"github.com/example/tally/internal/ports/secondary"
)

// AuditLogRepository implements secondary.AuditLog with SQLite. The actor
// is taken from context at write time.
type AuditLogRepository struct {
	db *sql.DB
}

// NewAuditLogRepository creates a new SQLite audit log repository.
func NewAuditLogRepository(db *sql.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

// Record appends one diagnostic entry.
func (r *AuditLogRepository) Record(ctx context.Context, category, message string) error {
	actor := ctxutil.ActorFromContext(ctx)
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO audit_log (actor, category, message) VALUES (?, ?, ?)",
		actor, category, message,
	)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}
	return nil
}

// List returns the most recent entries, newest first.
func (r *AuditLogRepository) List(ctx context.Context, limit int) ([]*secondary.AuditEntry, error) {
	query := "SELECT id, created_at, actor, category, message FROM audit_log ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}
	defer rows.Close()

	var entries []*secondary.AuditEntry
	for rows.Next() {
		var actor sql.NullString
		e := &secondary.AuditEntry{}
		if err := rows.Scan(&e.ID, &e.CreatedAt, &actor, &e.Category, &e.Message); err != nil {
			return nil, fmt.Errorf("failed to scan audit entry: %w", err)
		}
		e.Actor = actor.String
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// PruneToLimit deletes the oldest entries beyond max.
func (r *AuditLogRepository) PruneToLimit(ctx context.Context, max int) (int, error) {
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM audit_log WHERE id NOT IN (
			SELECT id FROM audit_log ORDER BY id DESC LIMIT ?
		)`, max,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to prune audit log: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return int(rowsAffected), nil
}

// Ensure AuditLogRepository implements the interface
var _ secondary.AuditLog = (*AuditLogRepository)(nil)
