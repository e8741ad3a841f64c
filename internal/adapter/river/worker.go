package river

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	"github.com/baytino/listingflow/internal/domain"
)

// NotificationWorker delivers moderation notification jobs through the
// configured Mailer. Delivery is best-effort: a transport failure is
// logged and the job is dropped, never surfaced to the transition that
// enqueued it.
type NotificationWorker struct {
	river.WorkerDefaults[NotificationJobArgs]

	mailer Mailer
}

// Work processes a single notification job.
func (w *NotificationWorker) Work(ctx context.Context, job *river.Job[NotificationJobArgs]) error {
	subject, body := renderTemplate(job.Args)

	err := w.mailer.Send(ctx, job.Args.RecipientID, subject, body)
	if err != nil {
		slog.ErrorContext(ctx, "notification delivery failed",
			"recipient", job.Args.RecipientID,
			"template", job.Args.Template,
			"post_id", job.Args.PostID,
			"job_id", job.ID,
			"error", err,
		)
	}
	return nil
}

func renderTemplate(args NotificationJobArgs) (subject, body string) {
	switch domain.NotificationTemplate(args.Template) {
	case domain.TemplatePostApproved:
		subject = "Your post has been approved"
		body = fmt.Sprintf("Your post %q is now live.", args.PostTitle)
	case domain.TemplatePostRejected:
		subject = "Your post was not approved"
		body = fmt.Sprintf("Your post %q was not approved.", args.PostTitle)
	default:
		subject = "Update on your post"
		body = fmt.Sprintf("There is an update on your post %q.", args.PostTitle)
	}

	if args.AdminNote != "" {
		body += fmt.Sprintf(" Admin note: %s", args.AdminNote)
	}
	return subject, body
}
