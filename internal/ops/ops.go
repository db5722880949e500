// Package ops implements the meeting operations shared by the CLI, the HTTP
// API and the MCP server. Every operation takes an *Env and an XxxInput and
// returns an XxxOutput (or the meeting) plus a *errors.CallSnapError.
package ops

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/callsnap/internal/config"
	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/observability"
	"github.com/hpungsan/callsnap/internal/pipeline"
	"github.com/hpungsan/callsnap/internal/store"
	"github.com/hpungsan/callsnap/internal/transcribe"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// Env is what every operation runs against.
type Env struct {
	Store      store.Store
	Config     *config.Config
	Backend    transcribe.Backend
	Vocabulary transcribe.Vocabulary
	Metrics    *observability.Metrics

	// Now is the clock; tests pin it
	Now func() time.Time
}

// NewEnv returns an Env with the corpus backend, the default vocabulary and
// the process-wide metrics.
func NewEnv(st store.Store, cfg *config.Config) *Env {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Env{
		Store:      st,
		Config:     cfg,
		Backend:    transcribe.NewCorpusBackend(),
		Vocabulary: transcribe.DefaultVocabulary,
		Metrics:    observability.Default(),
		Now:        time.Now,
	}
}

func (e *Env) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now().UTC()
}

func (e *Env) metrics() *observability.Metrics {
	if e.Metrics == nil {
		return observability.Default()
	}
	return e.Metrics
}

func (e *Env) config() *config.Config {
	if e.Config == nil {
		return config.DefaultConfig()
	}
	return e.Config
}

// resolveStyle picks explicit, then sticky, then configured, then built-in.
func (e *Env) resolveStyle(explicit string, m *meeting.Meeting) string {
	return firstNonEmpty(
		meeting.Normalize(explicit),
		meeting.Normalize(m.Settings.PreferredSummaryStyle),
		meeting.Normalize(e.config().DefaultSummaryStyle),
		pipeline.BuiltinStyles[0],
	)
}

// resolveLanguage picks explicit, then sticky, then configured, then pt-BR.
func (e *Env) resolveLanguage(explicit string, m *meeting.Meeting) string {
	return pipeline.CanonicalLanguage(firstNonEmpty(
		strings.TrimSpace(explicit),
		m.Settings.PreferredLanguage,
		e.config().DefaultLanguage,
	))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// requireID trims and checks a meeting id.
func requireID(id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", errors.NewInvalidRequest("id is required")
	}
	return id, nil
}

// checkCancelled returns CANCELLED once ctx is done.
func checkCancelled(ctx context.Context, operation string) error {
	if ctx.Err() != nil {
		return errors.NewCancelled(operation)
	}
	return nil
}

// generateULID generates a new ULID.
func generateULID(now time.Time) (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(now), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
