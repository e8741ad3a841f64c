package otel

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/baytino/listingflow/internal/domain"
)

const tracerName = "github.com/baytino/listingflow/internal/adapter/otel"

// TracingListingRepository wraps a domain.ListingRepository with
// OpenTelemetry tracing. Each method creates a span with semantic
// attributes and records errors.
type TracingListingRepository struct {
	next   domain.ListingRepository
	tracer trace.Tracer
}

// Compile-time check: TracingListingRepository implements domain.ListingRepository.
var _ domain.ListingRepository = (*TracingListingRepository)(nil)

// NewTracingListingRepository creates a tracing decorator around the given repository.
func NewTracingListingRepository(next domain.ListingRepository) *TracingListingRepository {
	return &TracingListingRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingListingRepository) Create(ctx context.Context, listing domain.Listing) error {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.Create",
		trace.WithAttributes(
			attribute.String("listing.id", listing.ID),
			attribute.String("listing.status", string(listing.Status)),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, listing)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingListingRepository) GetByID(ctx context.Context, id string) (domain.Listing, error) {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.GetByID",
		trace.WithAttributes(attribute.String("listing.id", id)),
	)
	defer span.End()

	listing, err := r.next.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return listing, err
}

func (r *TracingListingRepository) List(ctx context.Context, filter domain.ListingFilter) ([]domain.Listing, error) {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
			attribute.Bool("filter.include_deleted", filter.IncludeDeleted),
		),
	)
	defer span.End()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}

	listings, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(listings)))
	}
	return listings, err
}

func (r *TracingListingRepository) Update(ctx context.Context, listing domain.Listing, expectedVersion int64) error {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.Update",
		trace.WithAttributes(
			attribute.String("listing.id", listing.ID),
			attribute.String("listing.status", string(listing.Status)),
			attribute.Int64("listing.expected_version", expectedVersion),
		),
	)
	defer span.End()

	err := r.next.Update(ctx, listing, expectedVersion)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingListingRepository) FindPurgeEligible(ctx context.Context, now time.Time) ([]domain.Listing, error) {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.FindPurgeEligible")
	defer span.End()

	listings, err := r.next.FindPurgeEligible(ctx, now)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(listings)))
	}
	return listings, err
}

func (r *TracingListingRepository) HardDelete(ctx context.Context, id string) error {
	ctx, span := r.tracer.Start(ctx, "ListingRepository.HardDelete",
		trace.WithAttributes(attribute.String("listing.id", id)),
	)
	defer span.End()

	err := r.next.HardDelete(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

// TracingPostRepository wraps a domain.PostRepository with OpenTelemetry tracing.
type TracingPostRepository struct {
	next   domain.PostRepository
	tracer trace.Tracer
}

var _ domain.PostRepository = (*TracingPostRepository)(nil)

// NewTracingPostRepository creates a tracing decorator around the given repository.
func NewTracingPostRepository(next domain.PostRepository) *TracingPostRepository {
	return &TracingPostRepository{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (r *TracingPostRepository) Create(ctx context.Context, post domain.Post) error {
	ctx, span := r.tracer.Start(ctx, "PostRepository.Create",
		trace.WithAttributes(
			attribute.String("post.id", post.ID),
			attribute.String("post.status", string(post.Status)),
		),
	)
	defer span.End()

	err := r.next.Create(ctx, post)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (r *TracingPostRepository) GetByID(ctx context.Context, id string) (domain.Post, error) {
	ctx, span := r.tracer.Start(ctx, "PostRepository.GetByID",
		trace.WithAttributes(attribute.String("post.id", id)),
	)
	defer span.End()

	post, err := r.next.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return post, err
}

func (r *TracingPostRepository) List(ctx context.Context, filter domain.PostFilter) ([]domain.Post, error) {
	ctx, span := r.tracer.Start(ctx, "PostRepository.List",
		trace.WithAttributes(
			attribute.Int("filter.limit", filter.Limit),
			attribute.Int("filter.offset", filter.Offset),
		),
	)
	defer span.End()

	if filter.Status != nil {
		span.SetAttributes(attribute.String("filter.status", string(*filter.Status)))
	}

	posts, err := r.next.List(ctx, filter)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetAttributes(attribute.Int("result.count", len(posts)))
	}
	return posts, err
}

func (r *TracingPostRepository) Update(ctx context.Context, post domain.Post, expectedVersion int64) error {
	ctx, span := r.tracer.Start(ctx, "PostRepository.Update",
		trace.WithAttributes(
			attribute.String("post.id", post.ID),
			attribute.String("post.status", string(post.Status)),
			attribute.Int64("post.expected_version", expectedVersion),
		),
	)
	defer span.End()

	err := r.next.Update(ctx, post, expectedVersion)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
