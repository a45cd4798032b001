package primary

import "context"

// ReconcileOutcome reports one ledger reconciliation pass.
type ReconcileOutcome struct {
	Views         int // non-structural views scanned
	NewEvents     int // rows appended
	UpdatedValues int // source-value updates on existing keys
	Faults        int // per-view faults isolated during the pass
}

// LedgerStats summarizes the ledger for status display.
type LedgerStats struct {
	Events    int
	Unalerted int // terminal-rank events with an empty alert marker
}

// LedgerService derives canonical deduplicated events from the team views.
type LedgerService interface {
	// Reconcile scans all non-structural views and appends only new
	// events; existing keys get at most a source-value update. Running it
	// again with no cell changes performs zero writes.
	Reconcile(ctx context.Context) (*ReconcileOutcome, error)

	Stats(ctx context.Context) (*LedgerStats, error)
}
