package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/tally/internal/ports/secondary"
)

// DirectoryRepository implements secondary.DirectoryRepository with SQLite.
// The directory is read-only to the core; Import* methods exist for the
// roster import command only.
type DirectoryRepository struct {
	db *sql.DB
}

// NewDirectoryRepository creates a new SQLite directory repository.
func NewDirectoryRepository(db *sql.DB) *DirectoryRepository {
	return &DirectoryRepository{db: db}
}

// ListTeams returns the distinct team IDs present in the directory.
func (r *DirectoryRepository) ListTeams(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT DISTINCT team_id FROM subjects ORDER BY team_id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

// ListByTeam returns the subjects assigned to one team. Callers sort;
// the locale-aware surname ordering lives in the roster service.
func (r *DirectoryRepository) ListByTeam(ctx context.Context, teamID string) ([]*secondary.SubjectRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id, last_name, first_name, grade, team_id, flags FROM subjects WHERE team_id = ?",
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list subjects for team %s: %w", teamID, err)
	}
	defer rows.Close()

	var subjects []*secondary.SubjectRecord
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		subjects = append(subjects, s)
	}
	return subjects, rows.Err()
}

// GetByID returns one subject, or nil when the subject is not in the
// directory.
func (r *DirectoryRepository) GetByID(ctx context.Context, id string) (*secondary.SubjectRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT id, last_name, first_name, grade, team_id, flags FROM subjects WHERE id = ?", id,
	)
	s, err := scanSubject(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// TeamLead returns the designated lead for a team, or nil when none.
func (r *DirectoryRepository) TeamLead(ctx context.Context, teamID string) (*secondary.StaffRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT email, name, team_id, role FROM staff WHERE team_id = ? AND role = 'lead' ORDER BY email LIMIT 1",
		teamID,
	)
	s, err := scanStaff(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListResponders returns the primary responders tagged for a team.
func (r *DirectoryRepository) ListResponders(ctx context.Context, teamID string) ([]*secondary.StaffRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT email, name, team_id, role FROM staff WHERE team_id = ? AND role = 'responder' ORDER BY email",
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list responders for team %s: %w", teamID, err)
	}
	defer rows.Close()

	var staff []*secondary.StaffRecord
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	return staff, rows.Err()
}

// ImportSubjects replaces the subject directory.
func (r *DirectoryRepository) ImportSubjects(ctx context.Context, subjects []*secondary.SubjectRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin subject import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM subjects"); err != nil {
		return fmt.Errorf("failed to clear subjects: %w", err)
	}
	for _, s := range subjects {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO subjects (id, last_name, first_name, grade, team_id, flags) VALUES (?, ?, ?, ?, ?, ?)",
			s.ID, s.LastName, s.FirstName, s.Grade, s.TeamID, s.Flags,
		)
		if err != nil {
			return fmt.Errorf("failed to import subject %s: %w", s.ID, err)
		}
	}
	return tx.Commit()
}

// ImportStaff replaces the staff roles.
func (r *DirectoryRepository) ImportStaff(ctx context.Context, staff []*secondary.StaffRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin staff import: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM staff"); err != nil {
		return fmt.Errorf("failed to clear staff: %w", err)
	}
	for _, s := range staff {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO staff (email, name, team_id, role) VALUES (?, ?, ?, ?)",
			s.Email, s.Name, s.TeamID, s.Role,
		)
		if err != nil {
			return fmt.Errorf("failed to import staff %s: %w", s.Email, err)
		}
	}
	return tx.Commit()
}

func scanSubject(r rowScanner) (*secondary.SubjectRecord, error) {
	var grade, flags sql.NullString
	s := &secondary.SubjectRecord{}
	if err := r.Scan(&s.ID, &s.LastName, &s.FirstName, &grade, &s.TeamID, &flags); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan subject: %w", err)
	}
	s.Grade = grade.String
	s.Flags = flags.String
	return s, nil
}

func scanStaff(r rowScanner) (*secondary.StaffRecord, error) {
	var name sql.NullString
	s := &secondary.StaffRecord{}
	if err := r.Scan(&s.Email, &name, &s.TeamID, &s.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan staff: %w", err)
	}
	s.Name = name.String
	return s, nil
}

// Ensure DirectoryRepository implements the interface
var _ secondary.DirectoryRepository = (*DirectoryRepository)(nil)
