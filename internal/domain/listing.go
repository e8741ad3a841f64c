package domain

import "time"

// Status represents the lifecycle state of an entity's content.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusRejected Status = "rejected"
	// StatusInactive is forced onto a listing while it is soft-deleted.
	StatusInactive Status = "inactive"
	// StatusDeleted is the terminal state of a post. Posts model deletion
	// as a status value; listings carry it on a separate axis (see
	// Listing.DeletedAt).
	StatusDeleted Status = "deleted"
)

// Action represents a request that may trigger a state transition.
type Action string

const (
	ActionApprove    Action = "approve"
	ActionReject     Action = "reject"
	ActionSoftDelete Action = "soft_delete"
	ActionRestore    Action = "restore"
	ActionPurge      Action = "purge"
	ActionFeature    Action = "feature"
	ActionVerify     Action = "verify"

	// User-administration actions, checked by the guard only. The user
	// management surface itself lives outside this service.
	ActionBanUser    Action = "ban_user"
	ActionDemoteUser Action = "demote_user"
	ActionDeleteUser Action = "delete_user"
)

// EntityKind selects which transition table governs an entity.
type EntityKind string

const (
	KindListing EntityKind = "listing"
	KindPost    EntityKind = "post"
)

// Transition defines a valid state change: an action moves an entity from Src to Dst.
type Transition struct {
	Action Action
	Src    Status
	Dst    Status
}

// ListingTransitions defines the moderation axis of the listing lifecycle.
// The deletion axis (soft delete, restore, purge) is handled separately in
// lifecycle.go because it couples status with the retention timestamps.
var ListingTransitions = []Transition{
	{Action: ActionApprove, Src: StatusPending, Dst: StatusActive},
	{Action: ActionReject, Src: StatusPending, Dst: StatusRejected},
}

// PostTransitions defines all valid state changes in the post lifecycle.
// StatusDeleted is terminal: nothing leaves it.
var PostTransitions = []Transition{
	{Action: ActionApprove, Src: StatusPending, Dst: StatusActive},
	{Action: ActionReject, Src: StatusPending, Dst: StatusRejected},
	{Action: ActionReject, Src: StatusActive, Dst: StatusRejected},
	{Action: ActionApprove, Src: StatusRejected, Dst: StatusActive},
	{Action: ActionSoftDelete, Src: StatusPending, Dst: StatusDeleted},
	{Action: ActionSoftDelete, Src: StatusActive, Dst: StatusDeleted},
	{Action: ActionSoftDelete, Src: StatusRejected, Dst: StatusDeleted},
}

// Listing is a housing/room/roommate offer.
//
// Two orthogonal axes: Status is the moderation state of the content;
// DeletedAt/PurgeAt form the deletion state. The coupling rule (deletion
// forces StatusInactive, restore resets to StatusActive) is enforced by
// the lifecycle functions — entities are never mutated by direct field
// writes outside this package.
type Listing struct {
	ID        string
	Title     string
	OwnerID   string
	OwnerRole Role // snapshot of the owner's role at creation
	Status    Status
	Featured  bool
	Verified  bool
	DeletedAt *time.Time
	PurgeAt   *time.Time
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Deleted reports whether the listing is currently soft-deleted.
func (l Listing) Deleted() bool {
	return l.DeletedAt != nil
}

// InitialStatus returns the lifecycle status a new submission starts in.
// Student submissions require moderation before becoming visible;
// agent and owner submissions are trusted and go live immediately.
func InitialStatus(role Role) Status {
	switch role {
	case RoleAgent, RoleOwner:
		return StatusActive
	default:
		return StatusPending
	}
}

// NewListing creates a listing owned by the given actor, with its initial
// status set by the owner's trust tier.
func NewListing(id, title string, owner Actor, now time.Time) Listing {
	now = now.UTC()
	return Listing{
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
