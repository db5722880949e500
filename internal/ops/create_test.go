package ops

import (
	"context"
	"testing"
	"time"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
)

func TestCreate_HappyPath(t *testing.T) {
	env := newTestEnv(t)
	scheduled := time.Date(2026, 4, 1, 14, 0, 0, 0, time.UTC)

	m, err := Create(context.Background(), env, CreateInput{
		Title:        "  Sprint Review ",
		ScheduledAt:  scheduled,
		Participants: []meeting.Participant{{Name: " Ana ", Email: "ana@x.com"}},
		VideoSource:  meeting.VideoSource{Type: "YouTube", Value: "https://youtu.be/abc"},
		SummaryStyle: "TLDR",
		Language:     "en",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if m.ID == "" {
		t.Error("ID should be set")
	}
	if m.Title != "Sprint Review" {
		t.Errorf("Title = %q, want %q", m.Title, "Sprint Review")
	}
	if !m.ScheduledAt.Equal(scheduled) {
		t.Errorf("ScheduledAt = %v, want %v", m.ScheduledAt, scheduled)
	}
	if m.Status != meeting.StatusScheduled {
		t.Errorf("Status = %q, want scheduled", m.Status)
	}
	if m.Participants[0].Name != "Ana" {
		t.Errorf("participant name = %q, want trimmed", m.Participants[0].Name)
	}
	if m.VideoSource.Type != meeting.VideoYouTube || m.VideoSource.Platform != "YouTube" {
		t.Errorf("VideoSource = %+v", m.VideoSource)
	}
	if m.Settings.PreferredSummaryStyle != "tldr" || m.Settings.PreferredLanguage != "en-US" {
		t.Errorf("Settings = %+v", m.Settings)
	}
	if m.Summary != "" || m.ProcessedAt != nil || m.EmailsSentAt != nil {
		t.Error("new meeting should have no summary or timestamps")
	}

	stored, err := Get(context.Background(), env, GetInput{ID: m.ID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.Title != m.Title {
		t.Errorf("stored Title = %q, want %q", stored.Title, m.Title)
	}
}

func TestCreate_Defaults(t *testing.T) {
	env := newTestEnv(t)

	m, err := Create(context.Background(), env, CreateInput{
		Participants: []meeting.Participant{{Name: "Ana", Email: "ana@x.com"}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if m.Title != meeting.DefaultTitle {
		t.Errorf("Title = %q, want %q", m.Title, meeting.DefaultTitle)
	}
	if m.ScheduledAt.IsZero() {
		t.Error("ScheduledAt should default to now")
	}
	if m.VideoSource.Type != meeting.VideoUpload {
		t.Errorf("VideoSource.Type = %q, want upload", m.VideoSource.Type)
	}
	if m.Summaries.Styles == nil || m.Chapters == nil || m.Exports == nil {
		t.Error("collections should be empty, not nil")
	}
}

func TestCreate_ValidationErrors(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name  string
		input CreateInput
	}{
		{"no participants", CreateInput{Title: "x"}},
		{"participant without email", CreateInput{Participants: []meeting.Participant{{Name: "Ana"}}}},
		{"participant without name", CreateInput{Participants: []meeting.Participant{{Email: "ana@x.com"}}}},
		{"bad video type", CreateInput{
			Participants: []meeting.Participant{{Name: "Ana", Email: "ana@x.com"}},
			VideoSource:  meeting.VideoSource{Type: "dropbox"},
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Create(context.Background(), env, tc.input)
			if !errors.Is(err, errors.ErrInvalidRequest) {
				t.Errorf("err = %v, want INVALID_REQUEST", err)
			}
		})
	}

	n, err := env.Store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 0 {
		t.Errorf("Count = %d, want 0 (failed creates must not store anything)", n)
	}
}

func TestGet_Errors(t *testing.T) {
	env := newTestEnv(t)

	if _, err := Get(context.Background(), env, GetInput{}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Get(empty) err = %v, want INVALID_REQUEST", err)
	}
	if _, err := Get(context.Background(), env, GetInput{ID: "missing"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Get(missing) err = %v, want NOT_FOUND", err)
	}
}
