package app

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/example/tally/internal/core/week"
	"github.com/example/tally/internal/ports/secondary"
)

// cellAddr addresses one cell in a mock view.
type cellAddr struct {
	row, col int
}

type mockProtection struct {
	startCol, endCol int
	description      string
}

// mockSheetStore is an in-memory SheetStore tracking write counts so
// idempotence tests can assert on zero writes.
type mockSheetStore struct {
	views       map[string]*secondary.ViewInfo
	cells       map[string]map[cellAddr]string
	notes       map[string]map[cellAddr]string
	protections map[string][]mockProtection
	writes      int
}

func newMockSheetStore() *mockSheetStore {
	return &mockSheetStore{
		views:       make(map[string]*secondary.ViewInfo),
		cells:       make(map[string]map[cellAddr]string),
		notes:       make(map[string]map[cellAddr]string),
		protections: make(map[string][]mockProtection),
	}
}

func (m *mockSheetStore) addView(name, teamID string, reserved bool) {
	m.views[name] = &secondary.ViewInfo{Name: name, TeamID: teamID, Reserved: reserved}
	m.cells[name] = make(map[cellAddr]string)
	m.notes[name] = make(map[cellAddr]string)
}

func (m *mockSheetStore) setRows(view string, startRow int, rows [][]string) {
	for r, row := range rows {
		for c, v := range row {
			if v != "" {
				m.cells[view][cellAddr{startRow + r, c}] = v
			}
		}
	}
}

func (m *mockSheetStore) ListViews(ctx context.Context) ([]*secondary.ViewInfo, error) {
	var views []*secondary.ViewInfo
	for _, v := range m.views {
		views = append(views, v)
	}
	return views, nil
}

func (m *mockSheetStore) GetView(ctx context.Context, name string) (*secondary.ViewInfo, error) {
	return m.views[name], nil
}

func (m *mockSheetStore) CreateView(ctx context.Context, name, teamID string, reserved bool) error {
	m.writes++
	m.addView(name, teamID, reserved)
	return nil
}

func (m *mockSheetStore) Header(ctx context.Context, view string) ([][]string, error) {
	_, cols, _ := m.Dimensions(ctx, view)
	header := make([][]string, week.HeaderRows)
	for r := range header {
		header[r] = make([]string, cols)
		for c := 0; c < cols; c++ {
			header[r][c] = m.cells[view][cellAddr{r, c}]
		}
	}
	return header, nil
}

func (m *mockSheetStore) WriteHeader(ctx context.Context, view string, header [][]string) error {
	m.writes++
	m.setRows(view, 0, header)
	return nil
}

func (m *mockSheetStore) ReadRows(ctx context.Context, view string, startRow, numRows, width int) ([][]string, error) {
	rows := make([][]string, numRows)
	for r := range rows {
		rows[r] = make([]string, width)
		for c := 0; c < width; c++ {
			rows[r][c] = m.cells[view][cellAddr{startRow + r, c}]
		}
	}
	return rows, nil
}

func (m *mockSheetStore) WriteRows(ctx context.Context, view string, startRow int, rows [][]string) error {
	m.writes++
	m.setRows(view, startRow, rows)
	return nil
}

func (m *mockSheetStore) ClearFrom(ctx context.Context, view string, startRow int) error {
	m.writes++
	for addr := range m.cells[view] {
		if addr.row >= startRow {
			delete(m.cells[view], addr)
		}
	}
	for addr := range m.notes[view] {
		if addr.row >= startRow {
			delete(m.notes[view], addr)
		}
	}
	return nil
}

func (m *mockSheetStore) Dimensions(ctx context.Context, view string) (int, int, error) {
	rows, cols := 0, 0
	for addr := range m.cells[view] {
		if addr.row+1 > rows {
			rows = addr.row + 1
		}
		if addr.col+1 > cols {
			cols = addr.col + 1
		}
	}
	return rows, cols, nil
}

func (m *mockSheetStore) Cell(ctx context.Context, view string, row, col int) (string, error) {
	return m.cells[view][cellAddr{row, col}], nil
}

func (m *mockSheetStore) SetCell(ctx context.Context, view string, row, col int, value string) error {
	m.writes++
	if value == "" {
		delete(m.cells[view], cellAddr{row, col})
		return nil
	}
	m.cells[view][cellAddr{row, col}] = value
	return nil
}

func (m *mockSheetStore) Note(ctx context.Context, view string, row, col int) (string, error) {
	return m.notes[view][cellAddr{row, col}], nil
}

func (m *mockSheetStore) SetNote(ctx context.Context, view string, row, col int, note string) error {
	m.writes++
	m.notes[view][cellAddr{row, col}] = note
	return nil
}

func (m *mockSheetStore) SetProtection(ctx context.Context, view string, startCol, endCol int, description string) error {
	m.writes++
	m.protections[view] = append(m.protections[view], mockProtection{startCol, endCol, description})
	return nil
}

func (m *mockSheetStore) ClearProtections(ctx context.Context, view string) error {
	m.writes++
	m.protections[view] = nil
	return nil
}

// mockStateStore is an in-memory StateStore.
type mockStateStore struct {
	doc  map[string]string
	user map[string]string
}

func newMockStateStore() *mockStateStore {
	return &mockStateStore{
		doc:  make(map[string]string),
		user: make(map[string]string),
	}
}

func userKey(actor, key string) string {
	return actor + "\x00" + key
}

func (m *mockStateStore) GetDoc(ctx context.Context, key string) (string, error) {
	return m.doc[key], nil
}

func (m *mockStateStore) SetDoc(ctx context.Context, key, value string) error {
	m.doc[key] = value
	return nil
}

func (m *mockStateStore) DeleteDoc(ctx context.Context, key string) error {
	delete(m.doc, key)
	return nil
}

func (m *mockStateStore) GetUser(ctx context.Context, actor, key string) (string, error) {
	return m.user[userKey(actor, key)], nil
}

func (m *mockStateStore) SetUser(ctx context.Context, actor, key, value string) error {
	m.user[userKey(actor, key)] = value
	return nil
}

func (m *mockStateStore) DeleteUser(ctx context.Context, actor, key string) error {
	delete(m.user, userKey(actor, key))
	return nil
}

// mockDirectory is an in-memory DirectoryRepository.
type mockDirectory struct {
	subjects []*secondary.SubjectRecord
	staff    []*secondary.StaffRecord
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{}
}

func (m *mockDirectory) ListTeams(ctx context.Context) ([]string, error) {
	var teams []string
	seen := make(map[string]bool)
	for _, s := range m.subjects {
		if !seen[s.TeamID] {
			seen[s.TeamID] = true
			teams = append(teams, s.TeamID)
		}
	}
	return teams, nil
}

func (m *mockDirectory) ListByTeam(ctx context.Context, teamID string) ([]*secondary.SubjectRecord, error) {
	var subjects []*secondary.SubjectRecord
	for _, s := range m.subjects {
		if s.TeamID == teamID {
			subjects = append(subjects, s)
		}
	}
	return subjects, nil
}

func (m *mockDirectory) GetByID(ctx context.Context, id string) (*secondary.SubjectRecord, error) {
	for _, s := range m.subjects {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockDirectory) TeamLead(ctx context.Context, teamID string) (*secondary.StaffRecord, error) {
	for _, s := range m.staff {
		if s.TeamID == teamID && s.Role == "lead" {
			return s, nil
		}
	}
	return nil, nil
}

func (m *mockDirectory) ListResponders(ctx context.Context, teamID string) ([]*secondary.StaffRecord, error) {
	var staff []*secondary.StaffRecord
	for _, s := range m.staff {
		if s.TeamID == teamID && s.Role == "responder" {
			staff = append(staff, s)
		}
	}
	return staff, nil
}

func (m *mockDirectory) ImportSubjects(ctx context.Context, subjects []*secondary.SubjectRecord) error {
	m.subjects = subjects
	return nil
}

func (m *mockDirectory) ImportStaff(ctx context.Context, staff []*secondary.StaffRecord) error {
	m.staff = staff
	return nil
}

// mockLedger is an in-memory LedgerRepository tracking write counts.
type mockLedger struct {
	events []*secondary.LedgerEvent
	nextID int64
	writes int
}

func newMockLedger() *mockLedger {
	return &mockLedger{nextID: 1}
}

func (m *mockLedger) List(ctx context.Context) ([]*secondary.LedgerEvent, error) {
	out := make([]*secondary.LedgerEvent, len(m.events))
	for i, ev := range m.events {
		cp := *ev
		out[i] = &cp
	}
	return out, nil
}

func (m *mockLedger) Append(ctx context.Context, events []*secondary.LedgerEvent) error {
	m.writes++
	for _, ev := range events {
		cp := *ev
		cp.ID = m.nextID
		m.nextID++
		m.events = append(m.events, &cp)
	}
	return nil
}

func (m *mockLedger) find(id int64) *secondary.LedgerEvent {
	for _, ev := range m.events {
		if ev.ID == id {
			return ev
		}
	}
	return nil
}

func (m *mockLedger) UpdateSourceValue(ctx context.Context, id int64, value string) error {
	m.writes++
	ev := m.find(id)
	if ev == nil {
		return fmt.Errorf("ledger event %d not found", id)
	}
	ev.SourceValue = value
	return nil
}

func (m *mockLedger) MarkAlerted(ctx context.Context, id int64, at string) error {
	m.writes++
	ev := m.find(id)
	if ev == nil {
		return fmt.Errorf("ledger event %d not found", id)
	}
	ev.AlertedAt = at
	return nil
}

func (m *mockLedger) CountBySubject(ctx context.Context, subjectID string) (int, error) {
	n := 0
	for _, ev := range m.events {
		if ev.SubjectID == subjectID {
			n++
		}
	}
	return n, nil
}

func (m *mockLedger) CountBySubjectRank(ctx context.Context, subjectID, rank string) (int, error) {
	n := 0
	for _, ev := range m.events {
		if ev.SubjectID == subjectID && ev.Rank == rank {
			n++
		}
	}
	return n, nil
}

// mockTemplates is an in-memory TemplateRepository.
type mockTemplates struct {
	templates map[string]*secondary.MessageTemplate
}

func newMockTemplates() *mockTemplates {
	return &mockTemplates{templates: make(map[string]*secondary.MessageTemplate)}
}

func (m *mockTemplates) GetByName(ctx context.Context, name string) (*secondary.MessageTemplate, error) {
	return m.templates[name], nil
}

func (m *mockTemplates) Put(ctx context.Context, t *secondary.MessageTemplate) error {
	m.templates[t.Name] = t
	return nil
}

// mockAudit is an in-memory AuditLog.
type mockAudit struct {
	entries []*secondary.AuditEntry
}

func newMockAudit() *mockAudit {
	return &mockAudit{}
}

func (m *mockAudit) Record(ctx context.Context, category, message string) error {
	m.entries = append(m.entries, &secondary.AuditEntry{
		ID:       int64(len(m.entries) + 1),
		Category: category,
		Message:  message,
	})
	return nil
}

func (m *mockAudit) List(ctx context.Context, limit int) ([]*secondary.AuditEntry, error) {
	var out []*secondary.AuditEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		out = append(out, m.entries[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (m *mockAudit) PruneToLimit(ctx context.Context, max int) (int, error) {
	if len(m.entries) <= max {
		return 0, nil
	}
	removed := len(m.entries) - max
	m.entries = m.entries[removed:]
	return removed, nil
}

func (m *mockAudit) containsMessage(substr string) bool {
	for _, e := range m.entries {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}

// mockNotifier records sent notifications.
type mockNotifier struct {
	mu   sync.Mutex
	sent []mockNotification
}

type mockNotification struct {
	recipients []string
	subject    string
	body       string
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{}
}

func (m *mockNotifier) Send(ctx context.Context, recipients []string, subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, mockNotification{recipients: recipients, subject: subject, body: body})
	return nil
}

var (
	_ secondary.SheetStore          = (*mockSheetStore)(nil)
	_ secondary.StateStore          = (*mockStateStore)(nil)
	_ secondary.DirectoryRepository = (*mockDirectory)(nil)
	_ secondary.LedgerRepository    = (*mockLedger)(nil)
	_ secondary.TemplateRepository  = (*mockTemplates)(nil)
	_ secondary.AuditLog            = (*mockAudit)(nil)
	_ secondary.Notifier            = (*mockNotifier)(nil)
)
