package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/tally/internal/ports/secondary"
)

// StateRepository implements secondary.StateStore with SQLite: one table
// for the document-scoped map, one for the user-scoped map.
type StateRepository struct {
	db *sql.DB
}

// NewStateRepository creates a new SQLite state repository.
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db}
}

// GetDoc reads a document-scoped value; absent keys read as "".
func (r *StateRepository) GetDoc(ctx context.Context, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM doc_state WHERE key = ?", key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get doc state %s: %w", key, err)
	}
	return value, nil
}

// SetDoc writes a document-scoped value.
func (r *StateRepository) SetDoc(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO doc_state (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set doc state %s: %w", key, err)
	}
	return nil
}

// DeleteDoc removes a document-scoped key.
func (r *StateRepository) DeleteDoc(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM doc_state WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("failed to delete doc state %s: %w", key, err)
	}
	return nil
}

// GetUser reads a user-scoped value; absent keys read as "".
func (r *StateRepository) GetUser(ctx context.Context, actor, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		"SELECT value FROM user_state WHERE actor = ? AND key = ?", actor, key,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get user state %s/%s: %w", actor, key, err)
	}
	return value, nil
}

// SetUser writes a user-scoped value.
func (r *StateRepository) SetUser(ctx context.Context, actor, key, value string) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO user_state (actor, key, value) VALUES (?, ?, ?)
		ON CONFLICT(actor, key) DO UPDATE SET value = excluded.value`,
		actor, key, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set user state %s/%s: %w", actor, key, err)
	}
	return nil
}

// DeleteUser removes a user-scoped key.
func (r *StateRepository) DeleteUser(ctx context.Context, actor, key string) error {
	_, err := r.db.ExecContext(ctx,
		"DELETE FROM user_state WHERE actor = ? AND key = ?", actor, key,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user state %s/%s: %w", actor, key, err)
	}
	return nil
}

// Ensure StateRepository implements the interface
var _ secondary.StateStore = (*StateRepository)(nil)
