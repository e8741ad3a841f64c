package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrPostNotFound    = errors.New("post not found")
)

// TransitionError is returned when a requested action is not legal from
// the entity's current state, for any actor including admins.
type TransitionError struct {
	Action  Action
	Current Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("action %q is not valid from state %q", e.Action, e.Current)
}

// UnauthorizedError is returned when the actor lacks the role or
// ownership required for an action. The message deliberately carries no
// entity detail, so callers cannot learn which entities exist.
type UnauthorizedError struct {
	Action Action
	Role   Role
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("role %q may not perform %q", e.Role, e.Action)
}

// ConflictError is returned when a conditional update lost a race with a
// concurrent transition on the same entity. Callers may retry after
// re-reading the current state.
type ConflictError struct {
	ID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("entity %q was modified concurrently", e.ID)
}
