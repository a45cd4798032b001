package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/tally/internal/core/attrib"
	"github.com/example/tally/internal/core/rank"
	"github.com/example/tally/internal/core/week"
	"github.com/example/tally/internal/ports/primary"
	"github.com/example/tally/internal/ports/secondary"
)

// LedgerServiceImpl implements the LedgerService interface. Reconcile is
// the only writer of new ledger rows; each (subject, rank, week) key is
// appended exactly once and its identity snapshot never changes afterward.
type LedgerServiceImpl struct {
	sheets secondary.SheetStore
	dir    secondary.DirectoryRepository
	ledger secondary.LedgerRepository
	audit  secondary.AuditLog
	now    func() time.Time
}

// NewLedgerService creates a new LedgerService with injected dependencies.
func NewLedgerService(
	sheets secondary.SheetStore,
	dir secondary.DirectoryRepository,
	ledger secondary.LedgerRepository,
	audit secondary.AuditLog,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		sheets: sheets,
		dir:    dir,
		ledger: ledger,
		audit:  audit,
		now:    time.Now,
	}
}

// Reconcile scans every non-reserved view and folds new infraction cells
// into the ledger. A second pass over unchanged views performs zero writes.
func (s *LedgerServiceImpl) Reconcile(ctx context.Context) (*primary.ReconcileOutcome, error) {
	views, err := s.sheets.ListViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}

	known, err := s.knownKeys(ctx)
	if err != nil {
		return nil, err
	}

	outcome := &primary.ReconcileOutcome{}
	var pending []*secondary.LedgerEvent

	for _, view := range views {
		if view.Reserved {
			continue
		}
		outcome.Views++

		appended, updated, err := s.reconcileView(ctx, view, known, &pending)
		if err != nil {
			// One broken view never blocks the rest of the pass.
			_ = s.audit.Record(ctx, "reconcile",
				fmt.Sprintf("view %s skipped: %v", view.Name, err))
			outcome.Faults++
			continue
		}
		outcome.NewEvents += appended
		outcome.UpdatedValues += updated
	}

	if len(pending) > 0 {
		if err := s.ledger.Append(ctx, pending); err != nil {
			return nil, fmt.Errorf("failed to append ledger events: %w", err)
		}
	}
	return outcome, nil
}

// Stats summarizes the ledger for status display.
func (s *LedgerServiceImpl) Stats(ctx context.Context) (*primary.LedgerStats, error) {
	events, err := s.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger events: %w", err)
	}
	stats := &primary.LedgerStats{Events: len(events)}
	for _, ev := range events {
		if ev.Rank == rank.Terminal() && ev.AlertedAt == "" {
			stats.Unalerted++
		}
	}
	return stats, nil
}

// knownKeys indexes the current ledger by canonical key.
func (s *LedgerServiceImpl) knownKeys(ctx context.Context) (map[ledgerKey]*secondary.LedgerEvent, error) {
	events, err := s.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger events: %w", err)
	}
	known := make(map[ledgerKey]*secondary.LedgerEvent, len(events))
	for _, ev := range events {
		known[ledgerKey{SubjectID: ev.SubjectID, Rank: ev.Rank, WeekLabel: ev.WeekLabel}] = ev
	}
	return known, nil
}

func (s *LedgerServiceImpl) reconcileView(ctx context.Context, view *secondary.ViewInfo, known map[ledgerKey]*secondary.LedgerEvent, pending *[]*secondary.LedgerEvent) (appended, updated int, err error) {
	header, err := s.sheets.Header(ctx, view.Name)
	if err != nil {
		return 0, 0, err
	}
	fields := week.FieldIndex(header)
	idCol, ok := fields["Student ID"]
	if !ok {
		return 0, 0, fmt.Errorf("view has no subject id column")
	}

	numRows, width, err := s.sheets.Dimensions(ctx, view.Name)
	if err != nil {
		return 0, 0, err
	}
	if numRows <= week.HeaderRows {
		return 0, 0, nil
	}
	rows, err := s.sheets.ReadRows(ctx, view.Name, week.HeaderRows, numRows-week.HeaderRows, width)
	if err != nil {
		return 0, 0, err
	}

	for r, row := range rows {
		subjectID := cellAt(row, idCol)
		if subjectID == "" {
			continue
		}
		for col := 0; col < width; col++ {
			label := cellAt(header[1], col)
			if !rank.IsRank(label) {
				continue
			}
			value := cellAt(row, col)
			if value == "" {
				continue
			}
			weekLabel, werr := week.LabelForColumn(header, col)
			if werr != nil {
				return appended, updated, werr
			}

			key := ledgerKey{SubjectID: subjectID, Rank: label, WeekLabel: weekLabel}
			if ev, seen := known[key]; seen {
				if ev.SourceValue != value {
					if uerr := s.ledger.UpdateSourceValue(ctx, ev.ID, value); uerr != nil {
						return appended, updated, uerr
					}
					ev.SourceValue = value
					updated++
				}
				continue
			}

			ev, berr := s.buildEvent(ctx, view.Name, header, row, week.HeaderRows+r, col, subjectID, label, weekLabel, value)
			if berr != nil {
				return appended, updated, berr
			}
			known[key] = ev
			*pending = append(*pending, ev)
			appended++
		}
	}
	return appended, updated, nil
}

// buildEvent assembles one new ledger row. Identity fields come from the
// directory when the subject is known, else from the view row itself.
func (s *LedgerServiceImpl) buildEvent(ctx context.Context, viewName string, header [][]string, row []string, rowIdx, col int, subjectID, rankLabel, weekLabel, value string) (*secondary.LedgerEvent, error) {
	fields := week.FieldIndex(header)
	fieldValue := func(name string) string {
		col, ok := fields[name]
		if !ok {
			return ""
		}
		return cellAt(row, col)
	}
	ev := &secondary.LedgerEvent{
		CreatedAt:   s.now().Format(attrib.TimeFormat),
		SubjectID:   subjectID,
		LastName:    fieldValue("Last Name"),
		FirstName:   fieldValue("First Name"),
		Grade:       fieldValue("Grade"),
		TeamID:      viewName,
		Rank:        rankLabel,
		WeekLabel:   weekLabel,
		OriginView:  viewName,
		SourceValue: value,
	}

	subj, err := s.dir.GetByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if subj != nil {
		ev.LastName = subj.LastName
		ev.FirstName = subj.FirstName
		ev.Grade = subj.Grade
		ev.TeamID = subj.TeamID
	}

	note, err := s.sheets.Note(ctx, viewName, rowIdx, col)
	if err != nil {
		return nil, err
	}
	ev.Attribution = attrib.Identity(note)

	snap, err := json.Marshal(map[string]string{
		"SubjectID": ev.SubjectID,
		"LastName":  ev.LastName,
		"FirstName": ev.FirstName,
		"Grade":     ev.Grade,
		"Team":      ev.TeamID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to serialize snapshot: %w", err)
	}
	ev.Snapshot = string(snap)
	return ev, nil
}

// Ensure LedgerServiceImpl implements the interface
var _ primary.LedgerService = (*LedgerServiceImpl)(nil)
