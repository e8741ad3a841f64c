package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/baytino/listingflow/internal/app"
	"github.com/baytino/listingflow/internal/domain"
)

// ActorParams identifies the requesting user. Authentication happens
// upstream; this service trusts the identity headers the gateway sets.
type ActorParams struct {
	ActorID   string `header:"X-Actor-ID" required:"true" doc:"Requesting user ID"`
	ActorRole string `header:"X-Actor-Role" required:"true" enum:"student,agent,owner,service-provider,admin" doc:"Requesting user role"`
}

func (p ActorParams) actor() domain.Actor {
	return domain.Actor{ID: p.ActorID, Role: domain.Role(p.ActorRole)}
}

// ListingResponse is the API representation of a listing.
type ListingResponse struct {
	ID        string  `json:"id" doc:"Unique identifier"`
	Title     string  `json:"title" doc:"Display title"`
	OwnerID   string  `json:"owner_id" doc:"Owning user ID"`
	OwnerRole string  `json:"owner_role" doc:"Owner role at creation"`
	Status    string  `json:"status" doc:"Lifecycle state"`
	Featured  bool    `json:"featured" doc:"Admin-curated featured flag"`
	Verified  bool    `json:"verified" doc:"Admin-curated verified flag"`
	DeletedAt *string `json:"deleted_at,omitempty" doc:"Soft-delete timestamp (ISO 8601)"`
	PurgeAt   *string `json:"purge_at,omitempty" doc:"Permanent removal deadline (ISO 8601)"`
	Version   int64   `json:"version" doc:"Optimistic concurrency version"`
	CreatedAt string  `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt string  `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toListingResponse(l domain.Listing) ListingResponse {
	return ListingResponse{
		ID:        l.ID,
		Title:     l.Title,
		OwnerID:   l.OwnerID,
		OwnerRole: string(l.OwnerRole),
		Status:    string(l.Status),
		Featured:  l.Featured,
		Verified:  l.Verified,
		DeletedAt: formatOptional(l.DeletedAt),
		PurgeAt:   formatOptional(l.PurgeAt),
		Version:   l.Version,
		CreatedAt: l.CreatedAt.Format(time.RFC3339),
		UpdatedAt: l.UpdatedAt.Format(time.RFC3339),
	}
}

// PostResponse is the API representation of a moderatable post.
type PostResponse struct {
	ID         string  `json:"id" doc:"Unique identifier"`
	Title      string  `json:"title" doc:"Display title"`
	OwnerID    string  `json:"owner_id" doc:"Owning user ID"`
	OwnerRole  string  `json:"owner_role" doc:"Owner role at creation"`
	Status     string  `json:"status" doc:"Lifecycle state"`
	AdminNote  string  `json:"admin_note,omitempty" doc:"Moderator note from the last decision"`
	ApprovedBy string  `json:"approved_by,omitempty" doc:"Moderator who made the last decision"`
	ApprovedAt *string `json:"approved_at,omitempty" doc:"Timestamp of the last decision (ISO 8601)"`
	Version    int64   `json:"version" doc:"Optimistic concurrency version"`
	CreatedAt  string  `json:"created_at" doc:"Creation timestamp (ISO 8601)"`
	UpdatedAt  string  `json:"updated_at" doc:"Last update timestamp (ISO 8601)"`
}

func toPostResponse(p domain.Post) PostResponse {
	return PostResponse{
		ID:         p.ID,
		Title:      p.Title,
		OwnerID:    p.OwnerID,
		OwnerRole:  string(p.OwnerRole),
		Status:     string(p.Status),
		AdminNote:  p.AdminNote,
		ApprovedBy: p.ApprovedBy,
		ApprovedAt: formatOptional(p.ApprovedAt),
		Version:    p.Version,
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// --- Create Listing ---

type CreateListingInput struct {
	ActorParams
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"255" doc:"Display title"`
	}
}

type CreateListingOutput struct {
	Body ListingResponse
}

// --- Get Listing ---

type GetListingInput struct {
	ID string `path:"id" doc:"Listing ID"`
}

type GetListingOutput struct {
	Body ListingResponse
}

// --- List Listings ---

type ListListingsInput struct {
	Status         string `query:"status" required:"false" doc:"Filter by status"`
	OwnerID        string `query:"owner_id" required:"false" doc:"Filter by owner"`
	IncludeDeleted bool   `query:"include_deleted" required:"false" doc:"Include soft-deleted listings"`
	Limit          int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset         int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListListingsOutput struct {
	Body []ListingResponse
}

// --- Listing Transition ---

type ListingTransitionInput struct {
	ActorParams
	ID   string `path:"id" doc:"Listing ID"`
	Body struct {
		Action string `json:"action" doc:"Action to apply" enum:"approve,reject,soft_delete,restore,feature,verify"`
	}
}

type ListingTransitionOutput struct {
	Body ListingResponse
}

// --- Soft Delete / Restore Listing ---

type DeleteListingInput struct {
	ActorParams
	ID string `path:"id" doc:"Listing ID"`
}

type DeleteListingOutput struct {
	Body struct {
		ID        string `json:"id" doc:"Listing ID"`
		Status    string `json:"status" doc:"Lifecycle state after deletion"`
		DeletedAt string `json:"deleted_at" doc:"Soft-delete timestamp (ISO 8601)"`
		PurgeAt   string `json:"purge_at" doc:"Permanent removal deadline (ISO 8601)"`
	}
}

type RestoreListingInput struct {
	ActorParams
	ID string `path:"id" doc:"Listing ID"`
}

type RestoreListingOutput struct {
	Body ListingResponse
}

// --- Create Post ---

type CreatePostInput struct {
	ActorParams
	Body struct {
		Title string `json:"title" minLength:"1" maxLength:"255" doc:"Display title"`
	}
}

type CreatePostOutput struct {
	Body PostResponse
}

// --- Get Post ---

type GetPostInput struct {
	ID string `path:"id" doc:"Post ID"`
}

type GetPostOutput struct {
	Body PostResponse
}

// --- List Posts ---

type ListPostsInput struct {
	Status  string `query:"status" required:"false" doc:"Filter by status"`
	OwnerID string `query:"owner_id" required:"false" doc:"Filter by owner"`
	Limit   int    `query:"limit" required:"false" default:"50" doc:"Max results"`
	Offset  int    `query:"offset" required:"false" default:"0" doc:"Pagination offset"`
}

type ListPostsOutput struct {
	Body []PostResponse
}

// --- Moderate Post ---

type ModeratePostInput struct {
	ActorParams
	ID   string `path:"id" doc:"Post ID"`
	Body struct {
		Note string `json:"note,omitempty" maxLength:"1000" doc:"Moderator note for the owner"`
	}
}

type ModeratePostOutput struct {
	Body PostResponse
}

// --- Delete Post ---

type DeletePostInput struct {
	ActorParams
	ID string `path:"id" doc:"Post ID"`
}

type DeletePostOutput struct {
	Body PostResponse
}

// --- Manual Purge Sweep ---

type PurgeSweepInput struct {
	ActorParams
}

type PurgeSweepOutput struct {
	Body struct {
		Purged  int  `json:"purged" doc:"Listings permanently removed"`
		Failed  int  `json:"failed" doc:"Listings that failed to purge"`
		Skipped bool `json:"skipped" doc:"True when a sweep was already in flight"`
	}
}

// Register adds all API routes to the Huma API.
func Register(api huma.API, listings *app.ListingService, posts *app.ModerationService, sweeper *app.Sweeper) {
	huma.Register(api, huma.Operation{
		OperationID: "create-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/listings",
		Summary:     "Create a new listing",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *CreateListingInput) (*CreateListingOutput, error) {
		listing, err := listings.Create(ctx, input.actor(), input.Body.Title)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreateListingOutput{Body: toListingResponse(listing)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-listing",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings/{id}",
		Summary:     "Get a listing by ID",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *GetListingInput) (*GetListingOutput, error) {
		listing, err := listings.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		if listing.Deleted() {
			// Gone rather than 404: the listing existed, and its owner can
			// still restore it until the purge deadline.
			return nil, huma.NewError(http.StatusGone, "listing is deleted")
		}
		return &GetListingOutput{Body: toListingResponse(listing)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-listings",
		Method:      http.MethodGet,
		Path:        "/api/v1/listings",
		Summary:     "List listings",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *ListListingsInput) (*ListListingsOutput, error) {
		filter := domain.ListingFilter{
			OwnerID:        input.OwnerID,
			IncludeDeleted: input.IncludeDeleted,
			Limit:          input.Limit,
			Offset:         input.Offset,
		}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		result, err := listings.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]ListingResponse, len(result))
		for i, l := range result {
			resp[i] = toListingResponse(l)
		}
		return &ListListingsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "transition-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/listings/{id}/events",
		Summary:     "Apply a lifecycle action to a listing",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *ListingTransitionInput) (*ListingTransitionOutput, error) {
		listing, err := listings.Transition(ctx, input.ID, input.actor(), domain.Action(input.Body.Action))
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ListingTransitionOutput{Body: toListingResponse(listing)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-listing",
		Method:      http.MethodDelete,
		Path:        "/api/v1/listings/{id}",
		Summary:     "Soft-delete a listing",
		Description: "Hides the listing and schedules permanent removal after the retention window. The owner can restore it until then.",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *DeleteListingInput) (*DeleteListingOutput, error) {
		listing, err := listings.SoftDelete(ctx, input.ID, input.actor())
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &DeleteListingOutput{}
		out.Body.ID = listing.ID
		out.Body.Status = string(listing.Status)
		out.Body.DeletedAt = listing.DeletedAt.Format(time.RFC3339)
		out.Body.PurgeAt = listing.PurgeAt.Format(time.RFC3339)
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "restore-listing",
		Method:      http.MethodPost,
		Path:        "/api/v1/listings/{id}/restore",
		Summary:     "Restore a soft-deleted listing",
		Tags:        []string{"Listings"},
	}, func(ctx context.Context, input *RestoreListingInput) (*RestoreListingOutput, error) {
		listing, err := listings.Restore(ctx, input.ID, input.actor())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &RestoreListingOutput{Body: toListingResponse(listing)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "create-post",
		Method:      http.MethodPost,
		Path:        "/api/v1/posts",
		Summary:     "Create a new post",
		Tags:        []string{"Posts"},
	}, func(ctx context.Context, input *CreatePostInput) (*CreatePostOutput, error) {
		post, err := posts.CreatePost(ctx, input.actor(), input.Body.Title)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &CreatePostOutput{Body: toPostResponse(post)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-post",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Get a post by ID",
		Tags:        []string{"Posts"},
	}, func(ctx context.Context, input *GetPostInput) (*GetPostOutput, error) {
		post, err := posts.GetByID(ctx, input.ID)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &GetPostOutput{Body: toPostResponse(post)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-posts",
		Method:      http.MethodGet,
		Path:        "/api/v1/posts",
		Summary:     "List posts",
		Tags:        []string{"Posts"},
	}, func(ctx context.Context, input *ListPostsInput) (*ListPostsOutput, error) {
		filter := domain.PostFilter{
			OwnerID: input.OwnerID,
			Limit:   input.Limit,
			Offset:  input.Offset,
		}
		if input.Status != "" {
			s := domain.Status(input.Status)
			filter.Status = &s
		}

		result, err := posts.List(ctx, filter)
		if err != nil {
			return nil, toHumaError(err)
		}

		resp := make([]PostResponse, len(result))
		for i, p := range result {
			resp[i] = toPostResponse(p)
		}
		return &ListPostsOutput{Body: resp}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "approve-post",
		Method:      http.MethodPut,
		Path:        "/api/v1/admin/posts/{id}/approve",
		Summary:     "Approve a pending post",
		Tags:        []string{"Moderation"},
	}, func(ctx context.Context, input *ModeratePostInput) (*ModeratePostOutput, error) {
		post, err := posts.Approve(ctx, input.ID, input.actor(), input.Body.Note)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ModeratePostOutput{Body: toPostResponse(post)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "reject-post",
		Method:      http.MethodPut,
		Path:        "/api/v1/admin/posts/{id}/reject",
		Summary:     "Reject a pending post",
		Tags:        []string{"Moderation"},
	}, func(ctx context.Context, input *ModeratePostInput) (*ModeratePostOutput, error) {
		post, err := posts.Reject(ctx, input.ID, input.actor(), input.Body.Note)
		if err != nil {
			return nil, toHumaError(err)
		}
		return &ModeratePostOutput{Body: toPostResponse(post)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-post",
		Method:      http.MethodDelete,
		Path:        "/api/v1/posts/{id}",
		Summary:     "Delete a post",
		Description: "Post deletion is permanent: there is no restore.",
		Tags:        []string{"Posts"},
	}, func(ctx context.Context, input *DeletePostInput) (*DeletePostOutput, error) {
		post, err := posts.Delete(ctx, input.ID, input.actor())
		if err != nil {
			return nil, toHumaError(err)
		}
		return &DeletePostOutput{Body: toPostResponse(post)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "purge-sweep",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/purge",
		Summary:     "Run a purge sweep now",
		Description: "Permanently removes every listing whose retention window has lapsed. Normally driven by the scheduler; this endpoint exists for operational use.",
		Tags:        []string{"Moderation"},
	}, func(ctx context.Context, input *PurgeSweepInput) (*PurgeSweepOutput, error) {
		if !input.actor().IsAdmin() {
			return nil, huma.Error403Forbidden("admin role required")
		}
		result, err := sweeper.Run(ctx)
		if err != nil {
			return nil, toHumaError(err)
		}
		out := &PurgeSweepOutput{}
		out.Body.Purged = result.Purged
		out.Body.Failed = result.Failed
		out.Body.Skipped = result.Skipped
		return out, nil
	})
}

// toHumaError translates domain errors to Huma HTTP errors.
func toHumaError(err error) error {
	if errors.Is(err, domain.ErrListingNotFound) {
		return huma.Error404NotFound("listing not found")
	}
	if errors.Is(err, domain.ErrPostNotFound) {
		return huma.Error404NotFound("post not found")
	}

	// Unauthorized actions read as not-found so the API never confirms
	// the existence of entities the caller may not act on.
	var authErr *domain.UnauthorizedError
	if errors.As(err, &authErr) {
		return huma.Error404NotFound("not found")
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		return huma.Error409Conflict(conflictErr.Error())
	}

	var trErr *domain.TransitionError
	if errors.As(err, &trErr) {
		return huma.Error422UnprocessableEntity(trErr.Error())
	}

	return huma.Error500InternalServerError("internal server error")
}
