// Package secondary defines the driven-side ports: persistence and
// notification interfaces implemented by adapters.
package secondary

import "context"

// ViewInfo describes one view in the tabular store.
type ViewInfo struct {
	Name     string
	TeamID   string
	Reserved bool // structural views (template, directory) excluded from scans
}

// SheetStore is the tabular store holding team views: rectangular cell
// ranges addressed by (view, row, col), one note string per cell, and
// coarse range protections. Rows and columns are 0-based; data rows start
// after the 3-row header.
type SheetStore interface {
	ListViews(ctx context.Context) ([]*ViewInfo, error)
	GetView(ctx context.Context, name string) (*ViewInfo, error) // nil when absent
	CreateView(ctx context.Context, name, teamID string, reserved bool) error

	// Header returns the 3 header rows padded to the view's width.
	Header(ctx context.Context, view string) ([][]string, error)
	WriteHeader(ctx context.Context, view string, header [][]string) error

	ReadRows(ctx context.Context, view string, startRow, numRows, width int) ([][]string, error)
	WriteRows(ctx context.Context, view string, startRow int, rows [][]string) error
	// ClearFrom removes all cells (values and notes) at or below startRow.
	ClearFrom(ctx context.Context, view string, startRow int) error

	// Dimensions returns the number of occupied rows and columns.
	Dimensions(ctx context.Context, view string) (rows, cols int, err error)

	Cell(ctx context.Context, view string, row, col int) (string, error)
	SetCell(ctx context.Context, view string, row, col int, value string) error
	Note(ctx context.Context, view string, row, col int) (string, error)
	SetNote(ctx context.Context, view string, row, col int, note string) error

	SetProtection(ctx context.Context, view string, startCol, endCol int, description string) error
	ClearProtections(ctx context.Context, view string) error
}

// StateStore holds the durable key-value maps: document-scoped (sync
// state) and user-scoped (attestation). Absent keys read as "".
type StateStore interface {
	GetDoc(ctx context.Context, key string) (string, error)
	SetDoc(ctx context.Context, key, value string) error
	DeleteDoc(ctx context.Context, key string) error

	GetUser(ctx context.Context, actor, key string) (string, error)
	SetUser(ctx context.Context, actor, key, value string) error
	DeleteUser(ctx context.Context, actor, key string) error
}

// SubjectRecord is one directory entry. The directory is read-only to the
// core; an external import process refreshes it.
type SubjectRecord struct {
	ID        string
	LastName  string
	FirstName string
	Grade     string
	TeamID    string
	Flags     string
}

// StaffRecord is a team-scoped staff entry used for alert recipients.
type StaffRecord struct {
	Email  string
	Name   string
	TeamID string
	Role   string // "lead" or "responder"
}

// DirectoryRepository reads the subject directory and staff roles.
type DirectoryRepository interface {
	ListTeams(ctx context.Context) ([]string, error)
	ListByTeam(ctx context.Context, teamID string) ([]*SubjectRecord, error)
	// GetByID returns nil (no error) when the subject is not in the directory.
	GetByID(ctx context.Context, id string) (*SubjectRecord, error)
	TeamLead(ctx context.Context, teamID string) (*StaffRecord, error) // nil when none
	ListResponders(ctx context.Context, teamID string) ([]*StaffRecord, error)

	// Import replaces directory content; used only by the roster import
	// command, never by the core services.
	ImportSubjects(ctx context.Context, subjects []*SubjectRecord) error
	ImportStaff(ctx context.Context, staff []*StaffRecord) error
}

// LedgerEvent is one canonical infraction record. At most one row exists
// per (SubjectID, Rank, WeekLabel). Snapshot is written once at creation
// and never updated; SourceValue is the only mutable field besides the
// alert marker.
type LedgerEvent struct {
	ID          int64
	CreatedAt   string
	SubjectID   string
	LastName    string
	FirstName   string
	Grade       string
	TeamID      string
	Rank        string
	WeekLabel   string
	Attribution string
	OriginView  string
	SourceValue string
	Snapshot    string
	AlertedAt   string // empty until a dispatch attempt
}

// LedgerRepository persists the event ledger.
type LedgerRepository interface {
	List(ctx context.Context) ([]*LedgerEvent, error)
	Append(ctx context.Context, events []*LedgerEvent) error
	UpdateSourceValue(ctx context.Context, id int64, value string) error
	MarkAlerted(ctx context.Context, id int64, at string) error
	CountBySubject(ctx context.Context, subjectID string) (int, error)
	CountBySubjectRank(ctx context.Context, subjectID, rank string) (int, error)
}

// MessageTemplate is a named notification template. Fields lists the merge
// fields the template declares; empty means all available fields.
type MessageTemplate struct {
	Name    string
	Subject string
	Body    string
	Fields  []string
}

// TemplateRepository resolves message templates by name.
type TemplateRepository interface {
	// GetByName returns nil (no error) when the template does not exist.
	GetByName(ctx context.Context, name string) (*MessageTemplate, error)
	Put(ctx context.Context, t *MessageTemplate) error
}

// AuditEntry is one line of the bounded diagnostic record.
type AuditEntry struct {
	ID        int64
	CreatedAt string
	Actor     string
	Category  string
	Message   string
}

// AuditLog is the append-only diagnostic record. Implementations take the
// actor from context. The record is periodically pruned to a fixed maximum
// entry count to bound storage growth.
type AuditLog interface {
	Record(ctx context.Context, category, message string) error
	List(ctx context.Context, limit int) ([]*AuditEntry, error)
	// PruneToLimit deletes the oldest entries beyond max, returning the
	// number removed.
	PruneToLimit(ctx context.Context, max int) (int, error)
}
