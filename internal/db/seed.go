package db

import (
	"database/sql"
	"fmt"
)

// SeedTemplates inserts the default notification template when absent.
// Placeholders use literal {Field} substitution; Fields lists the merge
// fields the template declares.
func SeedTemplates(conn *sql.DB) error {
	const name = "terminal-offense-notice"
	const subject = "{FirstName} {LastName} reached {Rank} for week of {Week}"
	const body = `{FirstName} {LastName} (grade {Grade}, team {Team}) has reached {Rank} for the week of {Week}.

This is occurrence {RepeatCount} at this level; {Count} infractions are on record in total.

Entry: {SourceValue}`
	const fields = "FirstName,LastName,Grade,Team,Rank,Week,RepeatCount,Count,SourceValue"

	_, err := conn.Exec(
		"INSERT OR IGNORE INTO message_templates (name, subject, body, fields) VALUES (?, ?, ?, ?)",
		name, subject, body, fields,
	)
	if err != nil {
		return fmt.Errorf("failed to seed message template: %w", err)
	}
	return nil
}
