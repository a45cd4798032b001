package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/example/tally/internal/ports/secondary"
)

// TemplateRepository implements secondary.TemplateRepository with SQLite.
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new SQLite template repository.
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// GetByName returns one template, or nil when absent.
func (r *TemplateRepository) GetByName(ctx context.Context, name string) (*secondary.MessageTemplate, error) {
	var fields sql.NullString
	t := &secondary.MessageTemplate{}
	err := r.db.QueryRowContext(ctx,
		"SELECT name, subject, body, fields FROM message_templates WHERE name = ?", name,
	).Scan(&t.Name, &t.Subject, &t.Body, &fields)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template %s: %w", name, err)
	}
	if fields.String != "" {
		for _, f := range strings.Split(fields.String, ",") {
			if f = strings.TrimSpace(f); f != "" {
				t.Fields = append(t.Fields, f)
			}
		}
	}
	return t, nil
}

// Put creates or replaces a template.
func (r *TemplateRepository) Put(ctx context.Context, t *secondary.MessageTemplate) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO message_templates (name, subject, body, fields) VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET subject = excluded.subject, body = excluded.body, fields = excluded.fields`,
		t.Name, t.Subject, t.Body, strings.Join(t.Fields, ","),
	)
	if err != nil {
		return fmt.Errorf("failed to put template %s: %w", t.Name, err)
	}
	return nil
}

// Ensure TemplateRepository implements the interface
var _ secondary.TemplateRepository = (*TemplateRepository)(nil)
