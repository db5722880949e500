package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
)

// Set CALLSNAP_TEST_POSTGRES_DSN to run against a real server.
func newPostgresTestStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("CALLSNAP_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("CALLSNAP_TEST_POSTGRES_DSN not set")
	}
	s, err := OpenPostgres(context.Background(), dsn, nil)
	if err != nil {
		t.Fatalf("OpenPostgres() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgresStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newPostgresTestStore(t)

	id := ulid.Make().String()
	if err := s.Insert(ctx, newTestMeeting(id, time.Now().UTC())); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	if err := s.Insert(ctx, newTestMeeting(id, time.Now().UTC())); !errors.Is(err, errors.ErrConflict) {
		t.Errorf("duplicate Insert() err = %v, want CONFLICT", err)
	}

	updated, err := s.Update(ctx, id, func(m *meeting.Meeting) error {
		m.Summary = "pg"
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("Version = %d, want 2", updated.Version)
	}

	got, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Summary != "pg" {
		t.Errorf("Summary = %q, want pg", got.Summary)
	}

	if _, err := s.Get(ctx, ulid.Make().String()); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want NOT_FOUND", err)
	}
}
