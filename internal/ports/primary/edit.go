package primary

import "context"

// EditStatus classifies the outcome of one interactive edit. Rejections
// are never errors: the cell is reverted and the reason reported here.
type EditStatus string

const (
	// EditIgnored: structural view or header region; the guard does nothing.
	EditIgnored EditStatus = "ignored"
	// EditAccepted: the edit stands at the edited column, note stamped.
	EditAccepted EditStatus = "accepted"
	// EditAcceptedNonRank: a non-rank cell inside the active window;
	// accepted unmodified, no note stamped.
	EditAcceptedNonRank EditStatus = "accepted_nonrank"
	// EditRelocated: the value moved to the first missing rank slot and
	// was accepted there.
	EditRelocated EditStatus = "relocated"
	// EditRejectedWindow: the column lies outside the active week block.
	EditRejectedWindow EditStatus = "rejected_window"
	// EditRejectedSequence: a lower rank column is still empty.
	EditRejectedSequence EditStatus = "rejected_sequence"
	// EditRejectedIdentity: no confirmed attestation for the invoking user.
	EditRejectedIdentity EditStatus = "rejected_identity"
)

// EditRequest describes one interactive cell edit.
type EditRequest struct {
	View      string
	Row       int // 0-based; data rows start after the 3 header rows
	Col       int
	NewValue  string
	PrevValue string
}

// EditOutcome reports where the edit landed and why, when rejected.
type EditOutcome struct {
	Status    EditStatus
	TargetCol int    // column holding the value when accepted or relocated
	Message   string // user-facing explanation for rejections
}

// EditService validates and applies interactive edits, and manages the
// per-user attestation required before rank writes.
type EditService interface {
	// ApplyEdit runs the edit-guard pipeline. The returned error is
	// reserved for store faults; every validation outcome, including
	// rejections, arrives as an EditOutcome.
	ApplyEdit(ctx context.Context, req EditRequest) (*EditOutcome, error)

	// Attest stores the verified identity for the invoking actor.
	Attest(ctx context.Context, identity string) error

	// Attestation returns the stored identity, or "" when unconfirmed.
	Attestation(ctx context.Context) (string, error)
}
