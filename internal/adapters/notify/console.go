// Package notify contains Notifier implementations: a console sender for
// local use and a SendGrid sender for real delivery.
package notify

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/tally/internal/ports/secondary"
)

// ConsoleNotifier writes notifications to an io.Writer instead of sending
// them. Used when no delivery credentials are configured, and in tests.
type ConsoleNotifier struct {
	out io.Writer
}

// NewConsoleNotifier creates a console notifier writing to out.
func NewConsoleNotifier(out io.Writer) *ConsoleNotifier {
	return &ConsoleNotifier{out: out}
}

// Send renders the notification to the writer. Always one attempt, no
// retries.
func (n *ConsoleNotifier) Send(ctx context.Context, recipients []string, subject, body string) error {
	header := color.New(color.FgHiYellow).Sprint("--- notification ---")
	if _, err := fmt.Fprintf(n.out, "%s\nTo: %s\nSubject: %s\n\n%s\n",
		header, strings.Join(recipients, ", "), subject, body); err != nil {
		return fmt.Errorf("failed to write notification: %w", err)
	}
	return nil
}

// Ensure ConsoleNotifier implements the interface
var _ secondary.Notifier = (*ConsoleNotifier)(nil)
