package app

import (
	"context"
	"fmt"
	"time"

	"github.com/baytino/listingflow/internal/domain"
)

// ListingService orchestrates the listing lifecycle: creation under the
// trust-tier policy, guarded moderation transitions, and the soft-delete
// / restore deletion axis.
//
// Every transition re-reads the persisted entity and commits with a
// conditional update on its version, so concurrent transitions on the
// same listing serialize: the loser observes a domain.ConflictError.
type ListingService struct {
	repo      domain.ListingRepository
	validator domain.TransitionValidator
	guard     *Guard
	clock     domain.Clock
	retention time.Duration
}

// NewListingService creates a service with the given adapters. retention
// is the window between soft-delete and purge eligibility; zero selects
// the default.
func NewListingService(repo domain.ListingRepository, validator domain.TransitionValidator, guard *Guard, clock domain.Clock, retention time.Duration) *ListingService {
	if retention <= 0 {
		retention = domain.DefaultRetentionWindow
	}
	return &ListingService{
		repo:      repo,
		validator: validator,
		guard:     guard,
		clock:     clock,
		retention: retention,
	}
}

// Create persists a new listing owned by the actor. Its initial status
// follows the trust-tier policy: student submissions start pending,
// agent and owner submissions start active.
func (s *ListingService) Create(ctx context.Context, actor domain.Actor, title string) (domain.Listing, error) {
	listing := domain.NewListing(generateID(), title, actor, s.clock.Now())

	if err := s.repo.Create(ctx, listing); err != nil {
		return domain.Listing{}, fmt.Errorf("creating listing: %w", err)
	}

	return listing, nil
}

// GetByID returns a listing by its unique identifier, including
// soft-deleted ones (callers decide how to present the gone state).
func (s *ListingService) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns listings matching the given filter.
func (s *ListingService) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	return s.repo.List(ctx, filter)
}

// Transition applies a guarded action to a listing. Moderation actions
// change the lifecycle status via the transition table; feature and
// verify set admin flags; soft delete and restore move the deletion
// axis.
func (s *ListingService) Transition(ctx context.Context, id string, actor domain.Actor, action domain.Action) (domain.Listing, error) {
	// Always validate against the persisted state, never a caller copy.
	listing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Listing{}, err
	}

	if err := s.guard.CheckListing(actor, listing, action); err != nil {
		return domain.Listing{}, err
	}

	updated, err := s.applyAction(ctx, listing, action)
	if err != nil {
		return domain.Listing{}, err
	}

	return s.commit(ctx, updated, listing.Version)
}

func (s *ListingService) applyAction(ctx context.Context, listing domain.Listing, action domain.Action) (domain.Listing, error) {
	switch action {
	case domain.ActionSoftDelete:
		return domain.SoftDeleteListing(listing, s.clock.Now(), s.retention)

	case domain.ActionRestore:
		return domain.RestoreListing(listing)

	case domain.ActionFeature, domain.ActionVerify:
		if listing.Deleted() {
			return domain.Listing{}, &domain.TransitionError{Action: action, Current: listing.Status}
		}
		if action == domain.ActionFeature {
			listing.Featured = true
		} else {
			listing.Verified = true
		}
		return listing, nil

	default:
		if listing.Deleted() {
			return domain.Listing{}, &domain.TransitionError{Action: action, Current: listing.Status}
		}
		newStatus, err := s.validator.Apply(ctx, domain.KindListing, listing.Status, action)
		if err != nil {
			return domain.Listing{}, err
		}
		listing.Status = newStatus
		return listing, nil
	}
}

// SoftDelete marks a listing soft-deleted and stamps its purge
// deadline. It is a shorthand for Transition with ActionSoftDelete.
func (s *ListingService) SoftDelete(ctx context.Context, id string, actor domain.Actor) (domain.Listing, error) {
	return s.Transition(ctx, id, actor, domain.ActionSoftDelete)
}

// Restore brings a soft-deleted listing back before its purge deadline.
func (s *ListingService) Restore(ctx context.Context, id string, actor domain.Actor) (domain.Listing, error) {
	return s.Transition(ctx, id, actor, domain.ActionRestore)
}

func (s *ListingService) commit(ctx context.Context, listing domain.Listing, expectedVersion int64) (domain.Listing, error) {
	listing.Version = expectedVersion + 1
	listing.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, listing, expectedVersion); err != nil {
		return domain.Listing{}, err
	}

	return listing, nil
}
