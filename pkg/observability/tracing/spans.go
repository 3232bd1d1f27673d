package tracing

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// StoreSpan describes a document store operation.
type StoreSpan struct {
	System     string
	Database   string
	Collection string
	Operation  string
}

// StartStoreSpan starts a client span named "<operation> <collection>" with
// the db.* attributes set.
func StartStoreSpan(ctx context.Context, s StoreSpan) (context.Context, trace.Span) {
	name := s.Operation
	if s.Collection != "" {
		name = fmt.Sprintf("%s %s", s.Operation, s.Collection)
	}

	ctx, span := otel.Tracer("store").Start(ctx, name, trace.WithSpanKind(trace.SpanKindClient))
	attrs := []attribute.KeyValue{attribute.String("db.operation", s.Operation)}
	if s.System != "" {
		attrs = append(attrs, attribute.String("db.system", s.System))
	}
	if s.Database != "" {
		attrs = append(attrs, attribute.String("db.name", s.Database))
	}
	if s.Collection != "" {
		attrs = append(attrs, attribute.String("db.mongodb.collection", s.Collection))
	}
	span.SetAttributes(attrs...)
	return ctx, span
}

// RecordError records err on the span and marks it failed. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// RecordSuccess sets the span status to OK.
func RecordSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}
