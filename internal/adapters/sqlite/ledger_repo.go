package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/tally/internal/ports/secondary"
)

const ledgerColumns = "id, created_at, subject_id, last_name, first_name, grade, team_id, rank, week_label, attribution, origin_view, source_value, snapshot, alerted_at"

// LedgerRepository implements secondary.LedgerRepository with SQLite.
// The UNIQUE(subject_id, rank, week_label) constraint backs the one-row-
// per-key invariant; snapshot is never touched after creation.
type LedgerRepository struct {
	db *sql.DB
}

// NewLedgerRepository creates a new SQLite ledger repository.
func NewLedgerRepository(db *sql.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// List returns all ledger events in insertion order.
func (r *LedgerRepository) List(ctx context.Context) ([]*secondary.LedgerEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+ledgerColumns+" FROM ledger_events ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.LedgerEvent
	for rows.Next() {
		ev, err := scanLedgerEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}

// Append batch-inserts new events. Snapshot and creation timestamp are
// written here and never updated afterwards.
func (r *LedgerRepository) Append(ctx context.Context, events []*secondary.LedgerEvent) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin ledger append: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ledger_events
			(created_at, subject_id, last_name, first_name, grade, team_id, rank, week_label, attribution, origin_view, source_value, snapshot, alerted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare ledger append: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		res, err := stmt.ExecContext(ctx,
			ev.CreatedAt, ev.SubjectID, ev.LastName, ev.FirstName, ev.Grade, ev.TeamID,
			ev.Rank, ev.WeekLabel, ev.Attribution, ev.OriginView, ev.SourceValue, ev.Snapshot, ev.AlertedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to append ledger event (%s, %s, %s): %w",
				ev.SubjectID, ev.Rank, ev.WeekLabel, err)
		}
		if id, err := res.LastInsertId(); err == nil {
			ev.ID = id
		}
	}
	return tx.Commit()
}

// UpdateSourceValue updates only the mutable source value of one event.
func (r *LedgerRepository) UpdateSourceValue(ctx context.Context, id int64, value string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE ledger_events SET source_value = ? WHERE id = ?", value, id,
	)
	if err != nil {
		return fmt.Errorf("failed to update source value for event %d: %w", id, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("ledger event %d not found", id)
	}
	return nil
}

// MarkAlerted stamps the alert marker on one event.
func (r *LedgerRepository) MarkAlerted(ctx context.Context, id int64, at string) error {
	result, err := r.db.ExecContext(ctx,
		"UPDATE ledger_events SET alerted_at = ? WHERE id = ?", at, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark event %d alerted: %w", id, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("ledger event %d not found", id)
	}
	return nil
}

// CountBySubject returns the total number of events for one subject.
func (r *LedgerRepository) CountBySubject(ctx context.Context, subjectID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ledger_events WHERE subject_id = ?", subjectID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count events for subject %s: %w", subjectID, err)
	}
	return count, nil
}

// CountBySubjectRank returns the number of events at one rank for a subject.
func (r *LedgerRepository) CountBySubjectRank(ctx context.Context, subjectID, rank string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ledger_events WHERE subject_id = ? AND rank = ?", subjectID, rank,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count %s events for subject %s: %w", rank, subjectID, err)
	}
	return count, nil
}

func scanLedgerEvent(r rowScanner) (*secondary.LedgerEvent, error) {
	var lastName, firstName, grade, teamID, attribution, originView, sourceValue, snapshot sql.NullString
	ev := &secondary.LedgerEvent{}
	err := r.Scan(&ev.ID, &ev.CreatedAt, &ev.SubjectID, &lastName, &firstName, &grade, &teamID,
		&ev.Rank, &ev.WeekLabel, &attribution, &originView, &sourceValue, &snapshot, &ev.AlertedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan ledger event: %w", err)
	}
	ev.LastName = lastName.String
	ev.FirstName = firstName.String
	ev.Grade = grade.String
	ev.TeamID = teamID.String
	ev.Attribution = attribution.String
	ev.OriginView = originView.String
	ev.SourceValue = sourceValue.String
	ev.Snapshot = snapshot.String
	return ev, nil
}

// Ensure LedgerRepository implements the interface
var _ secondary.LedgerRepository = (*LedgerRepository)(nil)
