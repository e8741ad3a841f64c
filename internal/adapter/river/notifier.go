package river

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/riverqueue/river"

	"github.com/baytino/listingflow/internal/domain"
)

// Compile-time check: Notifier implements domain.NotificationDispatcher.
var _ domain.NotificationDispatcher = (*Notifier)(nil)

// NotificationJobArgs carries the data needed to deliver a moderation
// notification asynchronously. River serializes this as JSON into its
// job queue table. It snapshots everything the worker needs, so the
// worker never queries the entity store.
type NotificationJobArgs struct {
	RecipientID string `json:"recipient_id"`
	Template    string `json:"template"`
	PostID      string `json:"post_id"`
	PostTitle   string `json:"post_title"`
	AdminNote   string `json:"admin_note"`
}

// Kind returns the unique job type identifier used by River's job routing.
func (NotificationJobArgs) Kind() string { return "notification.send" }

// Client is the River client type parameterized for SQLite (*sql.Tx).
type Client = river.Client[*sql.Tx]

// Notifier implements domain.NotificationDispatcher by enqueuing River
// jobs. Enqueuing is the commit point: once the job is in the queue the
// moderation transition is done with it, and delivery happens on a
// worker, decoupled from the request.
type Notifier struct {
	client *Client
}

// NewNotifier creates a dispatcher backed by the given River client.
func NewNotifier(client *Client) *Notifier {
	return &Notifier{client: client}
}

// Notify enqueues a notification job.
func (n *Notifier) Notify(ctx context.Context, notification domain.Notification) error {
	_, err := n.client.Insert(ctx, NotificationJobArgs{
		RecipientID: notification.RecipientID,
		Template:    string(notification.Template),
		PostID:      notification.PostID,
		PostTitle:   notification.PostTitle,
		AdminNote:   notification.AdminNote,
	}, nil)
	if err != nil {
		return fmt.Errorf("enqueuing notification job: %w", err)
	}
	return nil
}
