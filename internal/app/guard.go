package app

import "github.com/baytino/listingflow/internal/domain"

// Guard is the pure authorization check applied before any transition.
// It decides who may request an action; whether the action is legal from
// the entity's current state is checked separately by the transition
// validator. No I/O, no side effects.
type Guard struct{}

// NewGuard creates the transition guard.
func NewGuard() *Guard {
	return &Guard{}
}

// CheckListing authorizes an action on a listing.
//
// Moderation and flag actions (approve, reject, feature, verify) require
// the admin role. Deletion-axis actions (soft delete, restore) require
// ownership or admin. Purge is reserved for the sweep and is denied for
// every actor.
func (g *Guard) CheckListing(actor domain.Actor, listing domain.Listing, action domain.Action) error {
	switch action {
	case domain.ActionApprove, domain.ActionReject, domain.ActionFeature, domain.ActionVerify:
		if !actor.IsAdmin() {
			return &domain.UnauthorizedError{Action: action, Role: actor.Role}
		}
	case domain.ActionSoftDelete, domain.ActionRestore:
		if actor.ID != listing.OwnerID && !actor.IsAdmin() {
			return &domain.UnauthorizedError{Action: action, Role: actor.Role}
		}
	default:
		return &domain.UnauthorizedError{Action: action, Role: actor.Role}
	}
	return nil
}

// CheckPost authorizes an action on a post. Approve and reject require
// the admin role; deletion requires ownership or admin.
func (g *Guard) CheckPost(actor domain.Actor, post domain.Post, action domain.Action) error {
	switch action {
	case domain.ActionApprove, domain.ActionReject:
		if !actor.IsAdmin() {
			return &domain.UnauthorizedError{Action: action, Role: actor.Role}
		}
	case domain.ActionSoftDelete:
		if actor.ID != post.OwnerID && !actor.IsAdmin() {
			return &domain.UnauthorizedError{Action: action, Role: actor.Role}
		}
	default:
		return &domain.UnauthorizedError{Action: action, Role: actor.Role}
	}
	return nil
}

// CheckUserAction authorizes a destructive user-administration action
// (ban, demote, delete). Only admins may administer users, an actor may
// never target themselves whatever their role, and admins are shielded
// from each other: no admin can strip another admin through this path.
func (g *Guard) CheckUserAction(actor, target domain.Actor, action domain.Action) error {
	switch action {
	case domain.ActionBanUser, domain.ActionDemoteUser, domain.ActionDeleteUser:
	default:
		return &domain.UnauthorizedError{Action: action, Role: actor.Role}
	}

	if actor.ID == target.ID {
		return &domain.UnauthorizedError{Action: action, Role: actor.Role}
	}
	if !actor.IsAdmin() {
		return &domain.UnauthorizedError{Action: action, Role: actor.Role}
	}
	if target.IsAdmin() {
		return &domain.UnauthorizedError{Action: action, Role: actor.Role}
	}
	return nil
}
