package domain

import (
	"context"
	"time"
)

// ListingRepository defines the persistence contract for listings.
//
// Update is conditional: it only writes if the stored row still carries
// expectedVersion, returning a ConflictError when a concurrent
// transition got there first. This serializes transitions on the same
// entity without requiring callers to hold locks.
type ListingRepository interface {
	Create(ctx context.Context, listing Listing) error
	GetByID(ctx context.Context, id string) (Listing, error)
	List(ctx context.Context, filter ListingFilter) ([]Listing, error)
	Update(ctx context.Context, listing Listing, expectedVersion int64) error
	FindPurgeEligible(ctx context.Context, now time.Time) ([]Listing, error)
	HardDelete(ctx context.Context, id string) error
}

// ListingFilter holds optional criteria for listing queries. Soft-deleted
// listings are excluded unless IncludeDeleted is set.
type ListingFilter struct {
	Status         *Status
	OwnerID        string
	IncludeDeleted bool
	Limit          int
	Offset         int
}

// PostRepository defines the persistence contract for moderatable posts.
// Update has the same conditional semantics as ListingRepository.Update.
type PostRepository interface {
	Create(ctx context.Context, post Post) error
	GetByID(ctx context.Context, id string) (Post, error)
	List(ctx context.Context, filter PostFilter) ([]Post, error)
	Update(ctx context.Context, post Post, expectedVersion int64) error
}

// PostFilter holds optional criteria for post queries.
type PostFilter struct {
	Status  *Status
	OwnerID string
	Limit   int
	Offset  int
}

// NotificationTemplate selects the message sent to an entity owner.
type NotificationTemplate string

const (
	TemplatePostApproved NotificationTemplate = "post_approved"
	TemplatePostRejected NotificationTemplate = "post_rejected"
)

// Notification is the payload handed to the dispatcher after a
// moderation decision.
type Notification struct {
	RecipientID string
	Template    NotificationTemplate
	PostID      string
	PostTitle   string
	AdminNote   string
}

// NotificationDispatcher delivers moderation notifications. Delivery is
// best-effort: callers log failures and never let them affect the
// transition that triggered them.
type NotificationDispatcher interface {
	Notify(ctx context.Context, n Notification) error
}

// TransitionValidator checks an action against the transition table of
// the given entity kind and returns the destination status.
type TransitionValidator interface {
	Apply(ctx context.Context, kind EntityKind, current Status, action Action) (Status, error)
}

// Clock abstracts time.Now so retention-window behavior is
// deterministic under test.
type Clock interface {
	Now() time.Time
}
