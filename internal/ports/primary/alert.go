package primary

import "context"

// AlertOutcome reports one dispatcher scan.
type AlertOutcome struct {
	Scanned      int // terminal-rank events with an empty alert marker
	Qualified    int // events whose week matches their view's active week
	Sent         int // notifications actually delivered to recipients
	NoRecipients int // events marked attempted with an empty recipient list
	Faults       int // per-event faults isolated during the scan
}

// AlertService dispatches threshold notifications exactly once per event.
type AlertService interface {
	// Scan sends at most one notification per qualifying ledger event and
	// stamps its alert marker, then audits the attempt.
	Scan(ctx context.Context) (*AlertOutcome, error)
}
