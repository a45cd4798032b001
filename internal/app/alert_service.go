package app

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/example/tally/internal/core/attrib"
	"github.com/example/tally/internal/core/rank"
	"github.com/example/tally/internal/core/valueset"
	"github.com/example/tally/internal/core/week"
	"github.com/example/tally/internal/ports/primary"
	"github.com/example/tally/internal/ports/secondary"
)

// AlertServiceImpl implements the AlertService interface. Exactly-once
// delivery per event hangs on the alert marker: every dispatch attempt
// stamps it, so a rerun never revisits the same event.
type AlertServiceImpl struct {
	sheets            secondary.SheetStore
	dir               secondary.DirectoryRepository
	ledger            secondary.LedgerRepository
	templates         secondary.TemplateRepository
	notifier          secondary.Notifier
	audit             secondary.AuditLog
	templateName      string
	defaultLead       string
	requireRecipients bool
	now               func() time.Time
}

// NewAlertService creates a new AlertService with injected dependencies.
// templateName selects the message template; defaultLead is the fallback
// recipient when a team has no designated lead. When requireRecipients is
// set, events with no recipients are left unmarked for a later scan.
func NewAlertService(
	sheets secondary.SheetStore,
	dir secondary.DirectoryRepository,
	ledger secondary.LedgerRepository,
	templates secondary.TemplateRepository,
	notifier secondary.Notifier,
	audit secondary.AuditLog,
	templateName, defaultLead string,
	requireRecipients bool,
) *AlertServiceImpl {
	return &AlertServiceImpl{
		sheets:            sheets,
		dir:               dir,
		ledger:            ledger,
		templates:         templates,
		notifier:          notifier,
		audit:             audit,
		templateName:      templateName,
		defaultLead:       defaultLead,
		requireRecipients: requireRecipients,
		now:               time.Now,
	}
}

// Scan dispatches at most one notification per qualifying terminal-rank
// event and stamps its alert marker.
func (s *AlertServiceImpl) Scan(ctx context.Context) (*primary.AlertOutcome, error) {
	tmpl, err := s.templates.GetByName(ctx, s.templateName)
	if err != nil {
		return nil, fmt.Errorf("failed to load template %q: %w", s.templateName, err)
	}
	if tmpl == nil {
		return nil, fmt.Errorf("message template %q not found", s.templateName)
	}

	events, err := s.ledger.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger events: %w", err)
	}

	activeByView, err := s.activeLabels(ctx)
	if err != nil {
		return nil, err
	}

	outcome := &primary.AlertOutcome{}
	for _, ev := range events {
		if ev.Rank != rank.Terminal() || ev.AlertedAt != "" {
			continue
		}
		outcome.Scanned++

		active, ok := activeByView[ev.OriginView]
		if !ok || active != ev.WeekLabel {
			continue
		}
		outcome.Qualified++

		if err := s.dispatch(ctx, ev, tmpl, outcome); err != nil {
			_ = s.audit.Record(ctx, "alert",
				fmt.Sprintf("event %d dispatch failed: %v", ev.ID, err))
			outcome.Faults++
		}
	}
	return outcome, nil
}

// activeLabels resolves the normalized active week label for every
// non-reserved view. A view whose lookups disagree is dropped from the map
// and audited; its events simply never qualify this scan.
func (s *AlertServiceImpl) activeLabels(ctx context.Context) (map[string]string, error) {
	views, err := s.sheets.ListViews(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list views: %w", err)
	}

	labels := make(map[string]string)
	for _, view := range views {
		if view.Reserved {
			continue
		}
		header, err := s.sheets.Header(ctx, view.Name)
		if err != nil {
			return nil, err
		}
		_, label, err := week.ResolveActive(header)
		if err != nil {
			_ = s.audit.Record(ctx, "alert",
				fmt.Sprintf("view %s excluded from scan: %v", view.Name, err))
			continue
		}
		labels[view.Name] = label
	}
	return labels, nil
}

func (s *AlertServiceImpl) dispatch(ctx context.Context, ev *secondary.LedgerEvent, tmpl *secondary.MessageTemplate, outcome *primary.AlertOutcome) error {
	recipients, err := s.recipients(ctx, ev.TeamID)
	if err != nil {
		return err
	}

	sent := false
	if len(recipients) > 0 {
		merge, err := s.mergeFields(ctx, ev)
		if err != nil {
			return err
		}
		subject := expand(tmpl.Subject, tmpl.Fields, merge)
		body := expand(tmpl.Body, tmpl.Fields, merge)
		if err := s.notifier.Send(ctx, recipients, subject, body); err != nil {
			return err
		}
		sent = true
	} else if s.requireRecipients {
		// Leave the marker empty so a later scan retries once staff exist.
		_ = s.audit.Record(ctx, "alert",
			fmt.Sprintf("event %d held: no recipients for team %s", ev.ID, ev.TeamID))
		return nil
	}

	if err := s.ledger.MarkAlerted(ctx, ev.ID, s.now().Format(attrib.TimeFormat)); err != nil {
		return err
	}

	if sent {
		outcome.Sent++
		_ = s.audit.Record(ctx, "alert", fmt.Sprintf(
			"event %d alerted: %s %s %s week %s to %s",
			ev.ID, ev.SubjectID, ev.FirstName, ev.LastName, ev.WeekLabel,
			strings.Join(recipients, ", ")))
	} else {
		outcome.NoRecipients++
		_ = s.audit.Record(ctx, "alert", fmt.Sprintf(
			"event %d marked without delivery: no recipients for team %s",
			ev.ID, ev.TeamID))
	}
	return nil
}

// recipients joins the team lead and the team's responders, deduplicated
// in insertion order. The configured default lead backstops a team with no
// designated lead.
func (s *AlertServiceImpl) recipients(ctx context.Context, teamID string) ([]string, error) {
	set := valueset.New()

	lead, err := s.dir.TeamLead(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if lead != nil {
		set.Add(lead.Email)
	} else {
		set.Add(s.defaultLead)
	}

	responders, err := s.dir.ListResponders(ctx, teamID)
	if err != nil {
		return nil, err
	}
	for _, r := range responders {
		set.Add(r.Email)
	}
	return set.Values(), nil
}

// mergeFields assembles the substitution values: live identity fields,
// counts, and whatever the creation-time snapshot recorded.
func (s *AlertServiceImpl) mergeFields(ctx context.Context, ev *secondary.LedgerEvent) (map[string]string, error) {
	merge := map[string]string{}
	if ev.Snapshot != "" {
		if err := json.Unmarshal([]byte(ev.Snapshot), &merge); err != nil {
			return nil, fmt.Errorf("failed to parse snapshot for event %d: %w", ev.ID, err)
		}
	}

	merge["FirstName"] = ev.FirstName
	merge["LastName"] = ev.LastName
	merge["Grade"] = ev.Grade
	merge["Team"] = ev.TeamID
	merge["Rank"] = ev.Rank
	merge["Week"] = ev.WeekLabel
	merge["SourceValue"] = ev.SourceValue

	repeat, err := s.ledger.CountBySubjectRank(ctx, ev.SubjectID, rank.Terminal())
	if err != nil {
		return nil, err
	}
	total, err := s.ledger.CountBySubject(ctx, ev.SubjectID)
	if err != nil {
		return nil, err
	}
	merge["RepeatCount"] = strconv.Itoa(repeat)
	merge["Count"] = strconv.Itoa(total)
	return merge, nil
}

// expand substitutes literal {Field} placeholders. When the template
// declares fields, only those are expanded; otherwise every merge value is.
func expand(text string, declared []string, merge map[string]string) string {
	names := declared
	if len(names) == 0 {
		names = make([]string, 0, len(merge))
		for name := range merge {
			names = append(names, name)
		}
	}
	for _, name := range names {
		if v, ok := merge[name]; ok {
			text = strings.ReplaceAll(text, "{"+name+"}", v)
		}
	}
	return text
}

// Ensure AlertServiceImpl implements the interface
var _ primary.AlertService = (*AlertServiceImpl)(nil)
