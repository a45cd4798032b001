package secondary

import "context"

// Notifier attempts one delivery of a notification. Best-effort: failure
// surfaces as the returned error, there is no retry or delivery guarantee.
type Notifier interface {
	Send(ctx context.Context, recipients []string, subject, body string) error
}
