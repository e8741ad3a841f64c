package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/baytino/listingflow/internal/domain"
)

// TracingDispatcher wraps a domain.NotificationDispatcher with
// OpenTelemetry tracing.
type TracingDispatcher struct {
	next   domain.NotificationDispatcher
	tracer trace.Tracer
}

var _ domain.NotificationDispatcher = (*TracingDispatcher)(nil)

// NewTracingDispatcher creates a tracing decorator around the given dispatcher.
func NewTracingDispatcher(next domain.NotificationDispatcher) *TracingDispatcher {
	return &TracingDispatcher{
		next:   next,
		tracer: otel.Tracer(tracerName),
	}
}

func (d *TracingDispatcher) Notify(ctx context.Context, n domain.Notification) error {
	ctx, span := d.tracer.Start(ctx, "NotificationDispatcher.Notify",
		trace.WithAttributes(
			attribute.String("notification.template", string(n.Template)),
			attribute.String("notification.post_id", n.PostID),
		),
	)
	defer span.End()

	err := d.next.Notify(ctx, n)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
