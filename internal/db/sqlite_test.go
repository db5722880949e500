package db

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	database, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	s := NewSQLiteStore(database)
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestMeeting(id string, created time.Time) *meeting.Meeting {
	return &meeting.Meeting{
		ID:           id,
		Title:        "Sprint Review",
		ScheduledAt:  created,
		Participants: []meeting.Participant{{Name: "Ana", Email: "ana@x.com"}},
		Status:       meeting.StatusScheduled,
		VideoSource:  meeting.VideoSource{Type: meeting.VideoUpload, Platform: "Upload"},
		Summaries:    meeting.Summaries{Styles: map[string]string{}},
		CreatedAt:    created,
		UpdatedAt:    created,
	}
}

func TestSQLiteStore_InsertAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	created := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	m := newTestMeeting("m1", created)
	if err := s.Insert(ctx, m); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	got, err := s.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Title != "Sprint Review" {
		t.Errorf("Title = %q, want %q", got.Title, "Sprint Review")
	}
	if got.Version != 1 {
		t.Errorf("Version = %d, want 1", got.Version)
	}
	if !got.CreatedAt.Equal(created) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, created)
	}
	if len(got.Participants) != 1 || got.Participants[0].Email != "ana@x.com" {
		t.Errorf("Participants = %+v", got.Participants)
	}
}

func TestSQLiteStore_InsertDuplicate(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Insert(ctx, newTestMeeting("m1", time.Now())); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}
	err := s.Insert(ctx, newTestMeeting("m1", time.Now()))
	if !errors.Is(err, errors.ErrConflict) {
		t.Errorf("Insert() duplicate err = %v, want CONFLICT", err)
	}
}

func TestSQLiteStore_GetNotFound(t *testing.T) {
	_, err := newTestStore(t).Get(context.Background(), "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get() err = %v, want NOT_FOUND", err)
	}
}

func TestSQLiteStore_Update(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Insert(ctx, newTestMeeting("m1", time.Now())); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	updated, err := s.Update(ctx, "m1", func(m *meeting.Meeting) error {
		m.Status = meeting.StatusProcessed
		m.Summary = "done"
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Version != 2 {
		t.Errorf("Version = %d, want 2", updated.Version)
	}

	got, err := s.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status != meeting.StatusProcessed || got.Summary != "done" {
		t.Errorf("got status=%q summary=%q", got.Status, got.Summary)
	}

	var status string
	if err := s.DB().QueryRow("SELECT status FROM meetings WHERE id = ?", "m1").Scan(&status); err != nil {
		t.Fatalf("query status: %v", err)
	}
	if status != string(meeting.StatusProcessed) {
		t.Errorf("status column = %q, want processed", status)
	}
}

func TestSQLiteStore_UpdateErrorWritesNothing(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Insert(ctx, newTestMeeting("m1", time.Now())); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	_, err := s.Update(ctx, "m1", func(m *meeting.Meeting) error {
		m.Title = "half"
		return errors.NewInvalidRequest("nope")
	})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Fatalf("Update() err = %v, want INVALID_REQUEST", err)
	}

	got, _ := s.Get(ctx, "m1")
	if got.Title != "Sprint Review" || got.Version != 1 {
		t.Errorf("meeting changed after failed update: title=%q version=%d", got.Title, got.Version)
	}
}

func TestSQLiteStore_UpdateRetriesLostRace(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Insert(ctx, newTestMeeting("m1", time.Now())); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	calls := 0
	updated, err := s.Update(ctx, "m1", func(m *meeting.Meeting) error {
		calls++
		if calls == 1 {
			// a competing writer commits between our read and write
			if _, err := s.Update(ctx, "m1", func(other *meeting.Meeting) error {
				other.Highlights = append(other.Highlights, "competing")
				return nil
			}); err != nil {
				t.Fatalf("competing Update() error = %v", err)
			}
		}
		m.Highlights = append(m.Highlights, "mine")
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
	if len(updated.Highlights) != 2 || updated.Highlights[0] != "competing" || updated.Highlights[1] != "mine" {
		t.Errorf("Highlights = %v, want [competing mine]", updated.Highlights)
	}
	if updated.Version != 3 {
		t.Errorf("Version = %d, want 3", updated.Version)
	}
}

func TestSQLiteStore_UpdateConflictAfterMaxAttempts(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Insert(ctx, newTestMeeting("m1", time.Now())); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	calls := 0
	_, err := s.Update(ctx, "m1", func(m *meeting.Meeting) error {
		calls++
		_, err := s.Update(ctx, "m1", func(*meeting.Meeting) error { return nil })
		return err
	})
	if !errors.Is(err, errors.ErrConflict) {
		t.Fatalf("Update() err = %v, want CONFLICT", err)
	}
	if calls != store.MaxUpdateAttempts {
		t.Errorf("fn called %d times, want %d", calls, store.MaxUpdateAttempts)
	}
}

func TestSQLiteStore_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	if err := s.Insert(ctx, newTestMeeting("m1", time.Now())); err != nil {
		t.Fatalf("Insert() error = %v", err)
	}

	const workers = 4
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Update(ctx, "m1", func(m *meeting.Meeting) error {
				m.Highlights = append(m.Highlights, "x")
				return nil
			})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	succeeded := 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, errors.ErrConflict):
		default:
			t.Errorf("Update() unexpected error = %v", err)
		}
	}

	got, err := s.Get(ctx, "m1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	// every successful update is visible: none were lost
	if len(got.Highlights) != succeeded {
		t.Errorf("Highlights = %d, want %d (successful updates)", len(got.Highlights), succeeded)
	}
	if got.Version != int64(succeeded+1) {
		t.Errorf("Version = %d, want %d", got.Version, succeeded+1)
	}
}

func TestSQLiteStore_ListAndCount(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)
	base := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)

	for i, id := range []string{"b", "a", "c"} {
		if err := s.Insert(ctx, newTestMeeting(id, base.Add(time.Duration(i)*time.Minute))); err != nil {
			t.Fatalf("Insert(%s) error = %v", id, err)
		}
	}

	list, err := s.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("len(List) = %d, want 3", len(list))
	}
	if list[0].ID != "b" || list[1].ID != "a" || list[2].ID != "c" {
		t.Errorf("List order = %s,%s,%s, want b,a,c", list[0].ID, list[1].ID, list[2].ID)
	}

	n, err := s.Count(ctx)
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if n != 3 {
		t.Errorf("Count() = %d, want 3", n)
	}
}

func TestSQLiteStore_CancelledContext(t *testing.T) {
	s := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Count(ctx); !errors.Is(err, errors.ErrCancelled) {
		t.Errorf("Count() err = %v, want CANCELLED", err)
	}
}
