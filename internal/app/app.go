// Package app implements the primary-port services: roster sync, edit
// guard, ledger reconciliation, alert dispatch, and the diagnostic log.
package app

// TemplateView is the reserved view holding the schema header every team
// view is rebuilt from.
const TemplateView = "Template"

const (
	syncKeyPrefix  = "sync:"
	attestationKey = "attestation"
	valueSeparator = ", "
	dayFormat      = "2006-01-02"
)

// SyncStateKey returns the document-state key holding a team's last sync
// date.
func SyncStateKey(teamID string) string {
	return syncKeyPrefix + teamID
}

// ledgerKey identifies one canonical infraction event.
type ledgerKey struct {
	SubjectID string
	Rank      string
	WeekLabel string
}
