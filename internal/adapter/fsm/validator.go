package fsm

import (
	"context"
	"errors"
	"fmt"

	loopfsm "github.com/looplab/fsm"

	"github.com/baytino/listingflow/internal/domain"
)

// Compile-time check: Validator implements domain.TransitionValidator.
var _ domain.TransitionValidator = (*Validator)(nil)

// events holds the looplab/fsm event tables per entity kind, converted
// from the domain transition tables. Transitions with the same
// action+destination are consolidated into a single EventDesc with
// multiple source states (e.g., soft_delete from "pending", "active"
// and "rejected" all go to "deleted").
var events = map[domain.EntityKind][]loopfsm.EventDesc{
	domain.KindListing: buildEvents(domain.ListingTransitions),
	domain.KindPost:    buildEvents(domain.PostTransitions),
}

func buildEvents(transitions []domain.Transition) []loopfsm.EventDesc {
	type key struct {
		action string
		dst    string
	}
	grouped := make(map[key][]string)
	order := make([]key, 0)

	for _, t := range transitions {
		k := key{action: string(t.Action), dst: string(t.Dst)}
		if _, exists := grouped[k]; !exists {
			order = append(order, k)
		}
		grouped[k] = append(grouped[k], string(t.Src))
	}

	out := make([]loopfsm.EventDesc, 0, len(order))
	for _, k := range order {
		out = append(out, loopfsm.EventDesc{
			Name: k.action,
			Src:  grouped[k],
			Dst:  k.dst,
		})
	}
	return out
}

// Validator implements domain.TransitionValidator using looplab/fsm.
// It creates a short-lived FSM instance per Apply call, initialized with
// the entity's current state. This is necessary because looplab/fsm is
// stateful (it tracks the current state internally).
type Validator struct{}

// New creates a new FSM-backed transition validator.
func New() *Validator {
	return &Validator{}
}

// Apply checks if the given action is valid from the current status of
// the given entity kind and returns the destination status. Returns a
// domain.TransitionError if the transition is not allowed.
func (v *Validator) Apply(ctx context.Context, kind domain.EntityKind, current domain.Status, action domain.Action) (domain.Status, error) {
	table, ok := events[kind]
	if !ok {
		return "", fmt.Errorf("unknown entity kind %q", kind)
	}

	machine := loopfsm.NewFSM(string(current), table, nil)

	if err := machine.Event(ctx, string(action)); err != nil {
		var invalidEvent loopfsm.InvalidEventError
		var noTransition loopfsm.NoTransitionError
		if errors.As(err, &invalidEvent) || errors.As(err, &noTransition) {
			return "", &domain.TransitionError{
				Action:  action,
				Current: current,
			}
		}
		return "", err
	}

	return domain.Status(machine.Current()), nil
}
