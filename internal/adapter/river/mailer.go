package river

import (
	"context"
	"log/slog"
)

// Mailer is the outbound transport used by the notification worker.
// Real email delivery lives outside this service; the default
// implementation logs the message.
type Mailer interface {
	Send(ctx context.Context, recipientID, subject, body string) error
}

// SlogMailer implements Mailer by logging the message.
type SlogMailer struct{}

func (SlogMailer) Send(ctx context.Context, recipientID, subject, body string) error {
	slog.InfoContext(ctx, "sending notification",
		"recipient", recipientID,
		"subject", subject,
		"body", body,
	)
	return nil
}
