// Package web serves the meeting pipeline as a JSON HTTP API.
package web

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hpungsan/callsnap/internal/logger"
	"github.com/hpungsan/callsnap/internal/observability"
	"github.com/hpungsan/callsnap/internal/ops"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// NewServer creates and configures the HTTP server for the CallSnap API.
func NewServer(env *ops.Env, bind string, port int) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf("%s:%d", bind, port),
		Handler:           NewHandler(env),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// NewHandler returns the API routes wrapped in the CORS, security-header and
// access-log middleware.
func NewHandler(env *ops.Env) http.Handler {
	h := &Handlers{env: env}

	mux := http.NewServeMux()

	// Routes using Go 1.22+ pattern syntax
	mux.HandleFunc("GET /api/status", h.HandleStatus)
	mux.HandleFunc("GET /api/stats", h.HandleStats)
	mux.HandleFunc("GET /api/meetings", h.HandleList)
	mux.HandleFunc("POST /api/meetings", h.HandleCreate)
	mux.HandleFunc("GET /api/meetings/{id}", h.HandleGet)
	mux.HandleFunc("POST /api/meetings/{id}/transcribe", h.HandleProcess)
	mux.HandleFunc("POST /api/meetings/{id}/resummarize", h.HandleResummarize)
	mux.HandleFunc("PATCH /api/meetings/{id}/transcript", h.HandleSaveTranscript)
	mux.HandleFunc("PATCH /api/meetings/{id}/summary", h.HandleSaveSummary)
	mux.HandleFunc("GET /api/meetings/{id}/search", h.HandleSearch)
	mux.HandleFunc("POST /api/meetings/{id}/export", h.HandleExport)
	mux.HandleFunc("POST /api/meetings/{id}/minutes", h.HandleMinutes)
	mux.HandleFunc("GET /api/meetings/{id}/captions.vtt", h.HandleCaptions)
	metrics := env.Metrics
	if metrics == nil {
		metrics = observability.Default()
	}
	mux.Handle("GET /metrics", metrics.Handler())

	var origins []string
	if env.Config != nil {
		origins = env.Config.AllowedOrigins
	}
	return accessLog(cors(origins, securityHeaders(mux)))
}

// securityHeaders adds security-related HTTP headers to all responses.
func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		next.ServeHTTP(w, r)
	})
}

// cors applies the origin allow-list. An empty list allows any origin.
// Preflight requests are answered here.
func cors(allowed []string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			switch {
			case len(allowed) == 0:
				w.Header().Set("Access-Control-Allow-Origin", "*")
			case slices.Contains(allowed, origin):
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Add("Vary", "Origin")
			}
		}

		if r.Method == http.MethodOptions && r.Header.Get("Access-Control-Request-Method") != "" {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(status int) {
	s.status = status
	s.ResponseWriter.WriteHeader(status)
}

// accessLog wraps each request in a span and logs one line per request at
// debug level, warn for 5xx.
func accessLog(next http.Handler) http.Handler {
	tracer := otel.Tracer(observability.TracerName)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx, span := tracer.Start(r.Context(), "http "+r.Method,
			trace.WithSpanKind(trace.SpanKindServer),
			trace.WithAttributes(attribute.String("http.route", r.URL.Path)),
		)
		defer span.End()
		r = r.WithContext(ctx)

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		entry := logger.WithFields(requestFields(r, rec.status, time.Since(start)))
		if rec.status >= http.StatusInternalServerError {
			entry.Warn("request failed")
			return
		}
		entry.Debug("request")
	})
}

func requestFields(r *http.Request, status int, elapsed time.Duration) logrus.Fields {
	fields := logrus.Fields{
		"method":   r.Method,
		"path":     r.URL.Path,
		"status":   status,
		"duration": elapsed.String(),
	}
	if id := observability.TraceID(r.Context()); id != "" {
		fields["trace_id"] = id
	}
	return fields
}

// Run starts the HTTP server and handles graceful shutdown on SIGINT/SIGTERM.
func Run(srv *http.Server) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	logger.Infof("CallSnap API running at http://%s", srv.Addr)

	if strings.Contains(srv.Addr, "0.0.0.0") || strings.Contains(srv.Addr, "::") {
		logger.Warnf("Server is binding to all interfaces and may be accessible from the network")
	}

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		logger.Infof("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(ctx)
	}
}
