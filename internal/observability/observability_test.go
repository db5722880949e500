package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.opentelemetry.io/otel/trace"

	"github.com/hpungsan/callsnap/internal/errors"
)

func TestNewMetrics_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.RecordOperation("process", StatusOK, 0.02)
	m.RecordOperation("process", "not_found", 0.001)
	m.RecordSegments(4)
	m.RecordExport("txt", 512)
	m.RecordMinutes(2)

	if got := testutil.ToFloat64(m.OperationsTotal.WithLabelValues("process", StatusOK)); got != 1 {
		t.Errorf("operations{process,ok} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.SegmentsTotal); got != 4 {
		t.Errorf("segments = %v, want 4", got)
	}
	if got := testutil.ToFloat64(m.ExportsTotal.WithLabelValues("txt")); got != 1 {
		t.Errorf("exports{txt} = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.MinutesPreviews); got != 2 {
		t.Errorf("minutes previews = %v, want 2", got)
	}
}

func TestTrack_RecordsOutcome(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	_, done := m.Track(context.Background(), "process", "m1")
	done(errors.NewPreconditionFailed("no summary"))
	if got := testutil.ToFloat64(m.OperationsTotal.WithLabelValues("process", "precondition_failed")); got != 1 {
		t.Errorf("operations{process,precondition_failed} = %v, want 1", got)
	}

	_, done = m.Track(context.Background(), "process", "")
	done(nil)
	if got := testutil.ToFloat64(m.OperationsTotal.WithLabelValues("process", StatusOK)); got != 1 {
		t.Errorf("operations{process,ok} = %v, want 1", got)
	}
}

func TestTrack_LeavesDefaultUntouched(t *testing.T) {
	before := testutil.ToFloat64(Default().OperationsTotal.WithLabelValues("isolated", StatusOK))

	m := NewMetrics(prometheus.NewRegistry())
	_, done := m.Track(context.Background(), "isolated", "")
	done(nil)

	if got := testutil.ToFloat64(Default().OperationsTotal.WithLabelValues("isolated", StatusOK)); got != before {
		t.Errorf("default counter changed: %v -> %v", before, got)
	}
}

func TestMetricsHandler_ServesOwnRegistry(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())
	m.RecordSegments(3)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "callsnap_segments_generated_total 3") {
		t.Errorf("metrics output missing own segment count:\n%s", body)
	}
}

func TestHandler_ServesMetrics(t *testing.T) {
	Default().RecordExport("md", 1024)

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "callsnap_exports_total") {
		t.Errorf("metrics output missing callsnap_exports_total")
	}
}

func TestTraceID_NoSpan(t *testing.T) {
	if id := TraceID(context.Background()); id != "" {
		t.Errorf("TraceID = %q, want empty", id)
	}
}

func TestTraceID_FromSpanContext(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    trace.TraceID{0x4b, 0xf9, 0x2f, 0x35, 0x77, 0xb3, 0x4d, 0xa6, 0xa3, 0xce, 0x92, 0x9d, 0x0e, 0x0e, 0x47, 0x36},
		SpanID:     trace.SpanID{0x00, 0xf0, 0x67, 0xaa, 0x0b, 0xa9, 0x02, 0xb7},
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	if id := TraceID(ctx); id != "4bf92f3577b34da6a3ce929d0e0e4736" {
		t.Errorf("TraceID = %q, want %q", id, "4bf92f3577b34da6a3ce929d0e0e4736")
	}
}
