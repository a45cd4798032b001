package app

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/example/tally/internal/core/fault"
	"github.com/example/tally/internal/core/rank"
	"github.com/example/tally/internal/core/valueset"
	"github.com/example/tally/internal/core/week"
	"github.com/example/tally/internal/ports/primary"
	"github.com/example/tally/internal/ports/secondary"
)

// RosterServiceImpl implements the RosterService interface. Each team's
// view is destroyed and rebuilt wholesale; historical infraction marks are
// re-derived from the ledger, never from the prior view state.
type RosterServiceImpl struct {
	sheets secondary.SheetStore
	dir    secondary.DirectoryRepository
	ledger secondary.LedgerRepository
	state  secondary.StateStore
	audit  secondary.AuditLog
	now    func() time.Time
}

// NewRosterService creates a new RosterService with injected dependencies.
func NewRosterService(
	sheets secondary.SheetStore,
	dir secondary.DirectoryRepository,
	ledger secondary.LedgerRepository,
	state secondary.StateStore,
	audit secondary.AuditLog,
) *RosterServiceImpl {
	return &RosterServiceImpl{
		sheets: sheets,
		dir:    dir,
		ledger: ledger,
		state:  state,
		audit:  audit,
		now:    time.Now,
	}
}

// SyncTeam rebuilds one team's view. A second call on the same calendar
// day is a no-op and performs zero writes.
func (s *RosterServiceImpl) SyncTeam(ctx context.Context, teamID string) (*primary.SyncOutcome, error) {
	today := s.now().Format(dayFormat)

	synced, err := s.syncedToday(ctx, teamID, today)
	if err != nil {
		return nil, err
	}
	if synced {
		return &primary.SyncOutcome{TeamID: teamID, Skipped: true}, nil
	}

	count, err := s.rebuild(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if err := s.state.SetDoc(ctx, syncKeyPrefix+teamID, today); err != nil {
		return nil, fmt.Errorf("failed to record sync state for team %s: %w", teamID, err)
	}

	_ = s.audit.Record(ctx, "sync", fmt.Sprintf("synced team %s (%d subjects)", teamID, count))
	return &primary.SyncOutcome{TeamID: teamID, Synced: true, SubjectCount: count}, nil
}

// SyncAll synchronizes every team with per-team fault isolation.
func (s *RosterServiceImpl) SyncAll(ctx context.Context) ([]*primary.SyncOutcome, error) {
	teams, err := s.dir.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	outcomes := make([]*primary.SyncOutcome, 0, len(teams))
	for _, teamID := range teams {
		outcome, err := s.SyncTeam(ctx, teamID)
		if err != nil {
			// Already-flushed writes for this team stay; siblings continue.
			_ = s.audit.Record(ctx, "sync", fmt.Sprintf("team %s sync aborted: %v", teamID, err))
			outcomes = append(outcomes, &primary.SyncOutcome{TeamID: teamID, Fault: err.Error()})
			continue
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes, nil
}

// SyncStep synchronizes exactly one team not yet synced today. Returns nil
// when every team is current, letting an external scheduler converge the
// batch across invocations.
func (s *RosterServiceImpl) SyncStep(ctx context.Context) (*primary.SyncOutcome, error) {
	teams, err := s.dir.ListTeams(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}

	today := s.now().Format(dayFormat)
	for _, teamID := range teams {
		synced, err := s.syncedToday(ctx, teamID, today)
		if err != nil {
			return nil, err
		}
		if !synced {
			return s.SyncTeam(ctx, teamID)
		}
	}
	return nil, nil
}

// syncedToday checks SyncState. Malformed dates are a state-parse fault:
// reset to empty, log, and treat the team as unsynced.
func (s *RosterServiceImpl) syncedToday(ctx context.Context, teamID, today string) (bool, error) {
	last, err := s.state.GetDoc(ctx, syncKeyPrefix+teamID)
	if err != nil {
		return false, fmt.Errorf("failed to read sync state for team %s: %w", teamID, err)
	}
	if last == "" {
		return false, nil
	}
	if _, perr := time.Parse(dayFormat, last); perr != nil {
		_ = s.audit.Record(ctx, "sync",
			fault.StateParsef("reset malformed sync state %q for team %s", last, teamID).Error())
		if err := s.state.DeleteDoc(ctx, syncKeyPrefix+teamID); err != nil {
			return false, fmt.Errorf("failed to reset sync state for team %s: %w", teamID, err)
		}
		return false, nil
	}
	return last == today, nil
}

// rebuild rewrites the team view from template, directory, and ledger.
func (s *RosterServiceImpl) rebuild(ctx context.Context, teamID string) (int, error) {
	tmpl, err := s.sheets.GetView(ctx, TemplateView)
	if err != nil {
		return 0, err
	}
	if tmpl == nil {
		return 0, fault.StoreAccessf("template view %q missing", TemplateView)
	}

	header, err := s.sheets.Header(ctx, TemplateView)
	if err != nil {
		return 0, err
	}
	subjects, err := s.dir.ListByTeam(ctx, teamID)
	if err != nil {
		return 0, err
	}
	marks, err := s.infractionLookup(ctx)
	if err != nil {
		return 0, err
	}

	view, err := s.sheets.GetView(ctx, teamID)
	if err != nil {
		return 0, err
	}
	if view == nil {
		if err := s.sheets.CreateView(ctx, teamID, teamID, false); err != nil {
			return 0, err
		}
	}

	if err := s.sheets.ClearFrom(ctx, teamID, week.HeaderRows); err != nil {
		return 0, err
	}
	if err := s.sheets.WriteHeader(ctx, teamID, header); err != nil {
		return 0, err
	}

	sortSubjects(subjects)

	rows := make([][]string, len(subjects))
	for i, subj := range subjects {
		row, err := s.buildRow(header, subj, marks)
		if err != nil {
			return 0, err
		}
		rows[i] = row
	}

	if err := s.sheets.WriteRows(ctx, teamID, week.HeaderRows, rows); err != nil {
		return 0, err
	}
	// Leftover rows from a larger previous roster.
	if err := s.sheets.ClearFrom(ctx, teamID, week.HeaderRows+len(rows)); err != nil {
		return 0, err
	}

	if err := s.protectInactive(ctx, teamID, header); err != nil {
		return 0, err
	}

	return len(rows), nil
}

// infractionLookup builds the (subject, rank, week) map of observed source
// values from the ledger. Values dedup in insertion order so the rendered
// join is deterministic.
func (s *RosterServiceImpl) infractionLookup(ctx context.Context) (map[ledgerKey]*valueset.Set, error) {
	events, err := s.ledger.List(ctx)
	if err != nil {
		return nil, err
	}

	marks := make(map[ledgerKey]*valueset.Set)
	for _, ev := range events {
		key := ledgerKey{SubjectID: ev.SubjectID, Rank: ev.Rank, WeekLabel: ev.WeekLabel}
		set, ok := marks[key]
		if !ok {
			set = valueset.New()
			marks[key] = set
		}
		set.Add(ev.SourceValue)
	}
	return marks, nil
}

// buildRow renders one subject's row: non-rank columns by header-name
// match, rank columns from the infraction lookup.
func (s *RosterServiceImpl) buildRow(header [][]string, subj *secondary.SubjectRecord, marks map[ledgerKey]*valueset.Set) ([]string, error) {
	width := len(header[0])
	if len(header[1]) > width {
		width = len(header[1])
	}
	row := make([]string, width)

	fields := map[string]string{
		"Student ID": subj.ID,
		"Last Name":  subj.LastName,
		"First Name": subj.FirstName,
		"Grade":      subj.Grade,
	}
	for name, col := range week.FieldIndex(header) {
		if v, ok := fields[name]; ok && col < width {
			row[col] = v
		}
	}

	for col := 0; col < width; col++ {
		label := ""
		if col < len(header[1]) {
			label = header[1][col]
		}
		if !rank.IsRank(label) {
			continue
		}
		weekLabel, err := week.LabelForColumn(header, col)
		if err != nil {
			return nil, fault.StoreAccessf("template header: %v", err)
		}
		key := ledgerKey{SubjectID: subj.ID, Rank: label, WeekLabel: weekLabel}
		if set, ok := marks[key]; ok {
			row[col] = set.Join(valueSeparator)
		}
	}
	return row, nil
}

// protectInactive re-derives the coarse range protections: every column
// outside the active block is protected against interactive edits.
func (s *RosterServiceImpl) protectInactive(ctx context.Context, view string, header [][]string) error {
	if err := s.sheets.ClearProtections(ctx, view); err != nil {
		return err
	}

	block, _, err := week.ResolveActive(header)
	if errors.Is(err, week.ErrActiveMismatch) {
		return fault.StoreAccessf("view %s: %v", view, err)
	}
	if err != nil {
		// No active week at all: protect everything.
		width := len(header[1])
		if width > 0 {
			return s.sheets.SetProtection(ctx, view, 0, width-1, "no active week")
		}
		return nil
	}

	if block.Start > 0 {
		if err := s.sheets.SetProtection(ctx, view, 0, block.Start-1, "outside active week"); err != nil {
			return err
		}
	}
	width := len(header[1])
	if block.End < width-1 {
		return s.sheets.SetProtection(ctx, view, block.End+1, width-1, "outside active week")
	}
	return nil
}

// sortSubjects orders by surname ascending, case-insensitive,
// locale-aware; first name breaks ties.
func sortSubjects(subjects []*secondary.SubjectRecord) {
	c := collate.New(language.English, collate.IgnoreCase)
	sort.SliceStable(subjects, func(i, j int) bool {
		if cmp := c.CompareString(subjects[i].LastName, subjects[j].LastName); cmp != 0 {
			return cmp < 0
		}
		return c.CompareString(subjects[i].FirstName, subjects[j].FirstName) < 0
	})
}

// Ensure RosterServiceImpl implements the interface
var _ primary.RosterService = (*RosterServiceImpl)(nil)
