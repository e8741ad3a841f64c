package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/baytino/listingflow/internal/domain"
)

// ModerationService handles the admin review workflow for posts:
// approve and reject with an audit trail, owner-or-admin deletion into
// the terminal deleted state, and a fire-and-forget notification to the
// post owner after each moderation decision.
type ModerationService struct {
	repo       domain.PostRepository
	validator  domain.TransitionValidator
	guard      *Guard
	dispatcher domain.NotificationDispatcher
	clock      domain.Clock
}

// NewModerationService creates a service with the given adapters.
func NewModerationService(repo domain.PostRepository, validator domain.TransitionValidator, guard *Guard, dispatcher domain.NotificationDispatcher, clock domain.Clock) *ModerationService {
	return &ModerationService{
		repo:       repo,
		validator:  validator,
		guard:      guard,
		dispatcher: dispatcher,
		clock:      clock,
	}
}

// CreatePost persists a new post owned by the actor, with its initial
// status set by the owner's trust tier.
func (s *ModerationService) CreatePost(ctx context.Context, actor domain.Actor, title string) (domain.Post, error) {
	post := domain.NewPost(generateID(), title, actor, s.clock.Now())

	if err := s.repo.Create(ctx, post); err != nil {
		return domain.Post{}, fmt.Errorf("creating post: %w", err)
	}

	return post, nil
}

// GetByID returns a post by its unique identifier.
func (s *ModerationService) GetByID(ctx context.Context, id string) (domain.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns posts matching the given filter.
func (s *ModerationService) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	return s.repo.List(ctx, filter)
}

// Approve moves a post to active, stamps the audit fields, and notifies
// the owner. Approving a deleted post fails for any actor.
func (s *ModerationService) Approve(ctx context.Context, id string, actor domain.Actor, note string) (domain.Post, error) {
	return s.moderate(ctx, id, actor, domain.ActionApprove, note, domain.TemplatePostApproved)
}

// Reject moves a post to rejected, stamps the audit fields, and
// notifies the owner. Rejecting a deleted post fails for any actor.
func (s *ModerationService) Reject(ctx context.Context, id string, actor domain.Actor, note string) (domain.Post, error) {
	return s.moderate(ctx, id, actor, domain.ActionReject, note, domain.TemplatePostRejected)
}

func (s *ModerationService) moderate(ctx context.Context, id string, actor domain.Actor, action domain.Action, note string, template domain.NotificationTemplate) (domain.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	if err := s.guard.CheckPost(actor, post, action); err != nil {
		return domain.Post{}, err
	}

	newStatus, err := s.validator.Apply(ctx, domain.KindPost, post.Status, action)
	if err != nil {
		return domain.Post{}, err
	}

	now := s.clock.Now().UTC()
	post.Status = newStatus
	post.AdminNote = note
	post.ApprovedBy = actor.ID
	post.ApprovedAt = &now

	post, err = s.commit(ctx, post)
	if err != nil {
		return domain.Post{}, err
	}

	// Post-commit, best-effort. A delivery failure never rolls back or
	// fails the moderation decision.
	s.notify(ctx, post, template)

	return post, nil
}

// Delete soft-deletes a post into its terminal state. There is no
// restore for posts.
func (s *ModerationService) Delete(ctx context.Context, id string, actor domain.Actor) (domain.Post, error) {
	post, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Post{}, err
	}

	if err := s.guard.CheckPost(actor, post, domain.ActionSoftDelete); err != nil {
		return domain.Post{}, err
	}

	newStatus, err := s.validator.Apply(ctx, domain.KindPost, post.Status, domain.ActionSoftDelete)
	if err != nil {
		return domain.Post{}, err
	}

	post.Status = newStatus
	return s.commit(ctx, post)
}

func (s *ModerationService) commit(ctx context.Context, post domain.Post) (domain.Post, error) {
	expected := post.Version
	post.Version = expected + 1
	post.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, post, expected); err != nil {
		return domain.Post{}, err
	}

	return post, nil
}

func (s *ModerationService) notify(ctx context.Context, post domain.Post, template domain.NotificationTemplate) {
	err := s.dispatcher.Notify(ctx, domain.Notification{
		RecipientID: post.OwnerID,
		Template:    template,
		PostID:      post.ID,
		PostTitle:   post.Title,
		AdminNote:   post.AdminNote,
	})
	if err != nil {
		slog.WarnContext(ctx, "notification dispatch failed",
			"post_id", post.ID,
			"template", template,
			"error", err,
		)
	}
}
