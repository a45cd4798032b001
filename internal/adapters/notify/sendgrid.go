package notify

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/example/tally/internal/ports/secondary"
)

var (
	sendgridHost     = "https://api.sendgrid.com"
	sendgridEndpoint = "/v3/mail/send"
)

// SendgridNotifier delivers notifications through the SendGrid v3 API.
type SendgridNotifier struct {
	key  string
	from *sgmail.Email
}

// NewSendgridNotifier creates a SendGrid notifier sending from the given
// address.
func NewSendgridNotifier(apiKey, fromEmail string) *SendgridNotifier {
	return &SendgridNotifier{
		key:  apiKey,
		from: sgmail.NewEmail("", fromEmail),
	}
}

// Send attempts one delivery. Failure is observable only as the returned
// error; there is no retry.
func (n *SendgridNotifier) Send(ctx context.Context, recipients []string, subject, body string) error {
	p := sgmail.NewPersonalization()
	p.Subject = subject
	for _, to := range recipients {
		p.AddTos(sgmail.NewEmail("", to))
	}

	m := sgmail.NewV3Mail()
	m.SetFrom(n.from)
	m.AddPersonalizations(p)
	m.AddContent(sgmail.NewContent("text/plain", body))

	req := sendgrid.GetRequest(n.key, sendgridEndpoint, sendgridHost)
	req.Method = http.MethodPost
	req.Body = sgmail.GetRequestBody(m)

	res, err := sendgrid.API(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	if res.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("failed to send notification: status %d: %s", res.StatusCode, res.Body)
	}
	return nil
}

// Ensure SendgridNotifier implements the interface
var _ secondary.Notifier = (*SendgridNotifier)(nil)
