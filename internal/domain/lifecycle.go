package domain

import "time"

// DefaultRetentionWindow is the time a soft-deleted listing remains
// recoverable before it becomes eligible for permanent removal.
const DefaultRetentionWindow = 48 * time.Hour

// SoftDeleteListing marks a listing soft-deleted at now and computes its
// purge deadline. The lifecycle status is forced to a non-visible value;
// the pre-delete status is not preserved (restore always resets to
// active). Fails if the listing is already soft-deleted.
//
// The retention window is applied at delete time only: changing the
// configured window never alters PurgeAt on already-deleted listings.
func SoftDeleteListing(l Listing, now time.Time, retention time.Duration) (Listing, error) {
	if l.Deleted() {
		return Listing{}, &TransitionError{Action: ActionSoftDelete, Current: l.Status}
	}

	deletedAt := now.UTC()
	purgeAt := deletedAt.Add(retention)

	l.Status = StatusInactive
	l.DeletedAt = &deletedAt
	l.PurgeAt = &purgeAt
	return l, nil
}

// RestoreListing clears the deletion state and resets the lifecycle
// status to the visible default. Fails if the listing is not currently
// soft-deleted.
func RestoreListing(l Listing) (Listing, error) {
	if !l.Deleted() {
		return Listing{}, &TransitionError{Action: ActionRestore, Current: l.Status}
	}

	l.Status = StatusActive
	l.DeletedAt = nil
	l.PurgeAt = nil
	return l, nil
}

// PurgeEligible reports whether the listing is soft-deleted and its
// retention window has elapsed.
func PurgeEligible(l Listing, now time.Time) bool {
	return l.Deleted() && l.PurgeAt != nil && !l.PurgeAt.After(now)
}
