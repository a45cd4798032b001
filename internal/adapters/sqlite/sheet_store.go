// Package sqlite contains SQLite implementations of the secondary ports.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/tally/internal/core/week"
	"github.com/example/tally/internal/ports/secondary"
)

// SheetStore implements secondary.SheetStore with SQLite. Cells are sparse:
// only occupied cells have rows; absent cells read as "".
type SheetStore struct {
	db *sql.DB
}

// NewSheetStore creates a new SQLite sheet store.
func NewSheetStore(db *sql.DB) *SheetStore {
	return &SheetStore{db: db}
}

// ListViews returns all views in creation order.
func (s *SheetStore) ListViews(ctx context.Context) ([]*secondary.ViewInfo, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, team_id, reserved FROM views ORDER BY created_at, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}
	defer rows.Close()

	var views []*secondary.ViewInfo
	for rows.Next() {
		v, err := scanView(rows)
		if err != nil {
			return nil, err
		}
		views = append(views, v)
	}
	return views, rows.Err()
}

// GetView returns one view, or nil when absent.
func (s *SheetStore) GetView(ctx context.Context, name string) (*secondary.ViewInfo, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT name, team_id, reserved FROM views WHERE name = ?", name,
	)
	v, err := scanView(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// CreateView registers a new empty view.
func (s *SheetStore) CreateView(ctx context.Context, name, teamID string, reserved bool) error {
	var teamCol sql.NullString
	if teamID != "" {
		teamCol = sql.NullString{String: teamID, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO views (name, team_id, reserved) VALUES (?, ?, ?)",
		name, teamCol, boolToInt(reserved),
	)
	if err != nil {
		return fmt.Errorf("failed to create view %s: %w", name, err)
	}
	return nil
}

// Header returns the 3 header rows padded to the view's width.
func (s *SheetStore) Header(ctx context.Context, view string) ([][]string, error) {
	return s.ReadRows(ctx, view, 0, week.HeaderRows, 0)
}

// WriteHeader rewrites the 3 header rows.
func (s *SheetStore) WriteHeader(ctx context.Context, view string, header [][]string) error {
	return s.WriteRows(ctx, view, 0, header)
}

// ReadRows reads numRows rows starting at startRow, each padded to width.
// Pass width 0 to pad to the view's occupied width.
func (s *SheetStore) ReadRows(ctx context.Context, view string, startRow, numRows, width int) ([][]string, error) {
	if width <= 0 {
		_, cols, err := s.Dimensions(ctx, view)
		if err != nil {
			return nil, err
		}
		width = cols
	}

	out := make([][]string, numRows)
	for i := range out {
		out[i] = make([]string, width)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT row, col, value FROM cells WHERE view_name = ? AND row >= ? AND row < ?",
		view, startRow, startRow+numRows,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from %s: %w", view, err)
	}
	defer rows.Close()

	for rows.Next() {
		var r, c int
		var value string
		if err := rows.Scan(&r, &c, &value); err != nil {
			return nil, fmt.Errorf("failed to scan cell: %w", err)
		}
		if c < width {
			out[r-startRow][c] = value
		}
	}
	return out, rows.Err()
}

// WriteRows batch-writes a rectangular block starting at startRow. Empty
// values clear the cell's value but keep its note.
func (s *SheetStore) WriteRows(ctx context.Context, view string, startRow int, rows [][]string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin write: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cells (view_name, row, col, value) VALUES (?, ?, ?, ?)
		ON CONFLICT(view_name, row, col) DO UPDATE SET value = excluded.value`)
	if err != nil {
		return fmt.Errorf("failed to prepare cell write: %w", err)
	}
	defer stmt.Close()

	for r, rowVals := range rows {
		for c, v := range rowVals {
			if _, err := stmt.ExecContext(ctx, view, startRow+r, c, v); err != nil {
				return fmt.Errorf("failed to write cell (%d,%d) in %s: %w", startRow+r, c, view, err)
			}
		}
	}
	return tx.Commit()
}

// ClearFrom removes all cells (values and notes) at or below startRow.
func (s *SheetStore) ClearFrom(ctx context.Context, view string, startRow int) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cells WHERE view_name = ? AND row >= ?", view, startRow,
	)
	if err != nil {
		return fmt.Errorf("failed to clear rows in %s: %w", view, err)
	}
	return nil
}

// Dimensions returns the occupied extent of a view.
func (s *SheetStore) Dimensions(ctx context.Context, view string) (int, int, error) {
	var rows, cols sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		"SELECT MAX(row) + 1, MAX(col) + 1 FROM cells WHERE view_name = ?", view,
	).Scan(&rows, &cols)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get dimensions of %s: %w", view, err)
	}
	return int(rows.Int64), int(cols.Int64), nil
}

// Cell reads one cell's value; absent cells read as "".
func (s *SheetStore) Cell(ctx context.Context, view string, row, col int) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM cells WHERE view_name = ? AND row = ? AND col = ?",
		view, row, col,
	).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read cell (%d,%d) in %s: %w", row, col, view, err)
	}
	return value, nil
}

// SetCell writes one cell's value, preserving its note.
func (s *SheetStore) SetCell(ctx context.Context, view string, row, col int, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cells (view_name, row, col, value) VALUES (?, ?, ?, ?)
		ON CONFLICT(view_name, row, col) DO UPDATE SET value = excluded.value`,
		view, row, col, value,
	)
	if err != nil {
		return fmt.Errorf("failed to set cell (%d,%d) in %s: %w", row, col, view, err)
	}
	return nil
}

// Note reads one cell's note; absent cells read as "".
func (s *SheetStore) Note(ctx context.Context, view string, row, col int) (string, error) {
	var note string
	err := s.db.QueryRowContext(ctx,
		"SELECT note FROM cells WHERE view_name = ? AND row = ? AND col = ?",
		view, row, col,
	).Scan(&note)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read note (%d,%d) in %s: %w", row, col, view, err)
	}
	return note, nil
}

// SetNote writes one cell's note, preserving its value.
func (s *SheetStore) SetNote(ctx context.Context, view string, row, col int, note string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cells (view_name, row, col, note) VALUES (?, ?, ?, ?)
		ON CONFLICT(view_name, row, col) DO UPDATE SET note = excluded.note`,
		view, row, col, note,
	)
	if err != nil {
		return fmt.Errorf("failed to set note (%d,%d) in %s: %w", row, col, view, err)
	}
	return nil
}

// SetProtection records a protected column range on a view.
func (s *SheetStore) SetProtection(ctx context.Context, view string, startCol, endCol int, description string) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO protections (view_name, start_col, end_col, description) VALUES (?, ?, ?, ?)",
		view, startCol, endCol, description,
	)
	if err != nil {
		return fmt.Errorf("failed to protect columns in %s: %w", view, err)
	}
	return nil
}

// ClearProtections removes all protections from a view.
func (s *SheetStore) ClearProtections(ctx context.Context, view string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM protections WHERE view_name = ?", view,
	)
	if err != nil {
		return fmt.Errorf("failed to clear protections in %s: %w", view, err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanView(r rowScanner) (*secondary.ViewInfo, error) {
	var teamID sql.NullString
	var reserved int
	v := &secondary.ViewInfo{}
	if err := r.Scan(&v.Name, &teamID, &reserved); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan view: %w", err)
	}
	v.TeamID = teamID.String
	v.Reserved = reserved != 0
	return v, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Ensure SheetStore implements the interface
var _ secondary.SheetStore = (*SheetStore)(nil)
