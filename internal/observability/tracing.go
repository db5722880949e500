package observability

import (
	"context"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/hpungsan/callsnap/internal/errors"
)

// TracerName is the name of the tracer for meeting operations.
const TracerName = "callsnap"

// Span attribute keys
const (
	AttrOperation = "operation"
	AttrMeetingID = "meeting_id"
	AttrErrorCode = "error_code"
)

// StatusOK is the status label recorded for successful operations.
const StatusOK = "ok"

// Track starts a span for operation and returns a done func that ends it and
// records the outcome on m. Call done exactly once with the operation's final
// error.
func (m *Metrics) Track(ctx context.Context, operation, meetingID string) (context.Context, func(error)) {
	start := time.Now()
	ctx, span := otel.Tracer(TracerName).Start(ctx, "callsnap."+operation,
		trace.WithAttributes(attribute.String(AttrOperation, operation)),
	)
	if meetingID != "" {
		span.SetAttributes(attribute.String(AttrMeetingID, meetingID))
	}

	return ctx, func(err error) {
		status := StatusOK
		if err != nil {
			cErr := errors.As(err)
			status = strings.ToLower(string(cErr.Code))
			span.SetStatus(codes.Error, cErr.Message)
			span.SetAttributes(attribute.String(AttrErrorCode, string(cErr.Code)))
			span.RecordError(err)
		} else {
			span.SetStatus(codes.Ok, "")
		}
		span.End()
		m.RecordOperation(operation, status, time.Since(start).Seconds())
	}
}

// TraceID returns the trace ID from the context, or "" without an active span.
func TraceID(ctx context.Context) string {
	span := trace.SpanFromContext(ctx)
	if span.SpanContext().HasTraceID() {
		return span.SpanContext().TraceID().String()
	}
	return ""
}
