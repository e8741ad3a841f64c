package domain

import "time"

// Post is a submission requiring admin review before (or after) it is
// publicly visible. Unlike listings, a deleted post is terminal: deletion
// is a status value, not a separate axis, and nothing leaves it.
type Post struct {
	ID        string
	Title     string
	OwnerID   string
	OwnerRole Role
	Status    Status

	// Moderation audit trail, stamped on both approve and reject.
	AdminNote  string
	ApprovedBy string
	ApprovedAt *time.Time

	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPost creates a post owned by the given actor, with its initial
// status set by the owner's trust tier.
func NewPost(id, title string, owner Actor, now time.Time) Post {
	now = now.UTC()
	return Post{
		ID:        id,
		Title:     title,
		OwnerID:   owner.ID,
		OwnerRole: owner.Role,
		Status:    InitialStatus(owner.Role),
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
