// Package primary defines the driving-side ports: the service interfaces
// the CLI (or any other host) calls, plus their request/response types.
package primary

import "context"

// SyncOutcome reports one team's roster synchronization.
type SyncOutcome struct {
	TeamID       string
	Synced       bool   // rows were rebuilt this call
	Skipped      bool   // already synced today; zero writes performed
	SubjectCount int    // roster rows written when Synced
	Fault        string // non-empty when this team's sync aborted
}

// RosterService rebuilds team views from the directory and the event
// ledger. Sync is idempotent within a calendar day.
type RosterService interface {
	// SyncTeam synchronizes one team. A second call on the same calendar
	// day is a no-op and returns Skipped.
	SyncTeam(ctx context.Context, teamID string) (*SyncOutcome, error)

	// SyncAll synchronizes every team with per-team fault isolation: one
	// team's fault never aborts the others. The error is reserved for
	// failures before any team is attempted.
	SyncAll(ctx context.Context) ([]*SyncOutcome, error)

	// SyncStep synchronizes exactly one team not yet synced today, for
	// external schedulers that converge the batch across invocations.
	// Returns nil when every team is already current.
	SyncStep(ctx context.Context) (*SyncOutcome, error)
}
