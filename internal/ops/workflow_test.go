package ops

import (
	"context"
	"encoding/base64"
	"strings"
	"testing"

	"github.com/hpungsan/callsnap/internal/config"
	"github.com/hpungsan/callsnap/internal/db"
	"github.com/hpungsan/callsnap/internal/meeting"
)

// TestWorkflow_SQLite runs the create -> process -> edit -> export -> minutes
// flow against the durable store.
func TestWorkflow_SQLite(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	st := db.NewSQLiteStore(database)
	defer st.Close()

	env := NewEnv(st, config.DefaultConfig())
	env.Now = stepClock()
	ctx := context.Background()

	created, err := Create(ctx, env, CreateInput{
		Title:        "Sprint Review",
		Participants: []meeting.Participant{{Name: "Ana", Email: "ana@x.com"}},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	processed, err := Process(ctx, env, ProcessInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Process failed: %v", err)
	}
	if processed.Status != meeting.StatusProcessed || processed.Summary == "" {
		t.Fatalf("status=%q summary=%q", processed.Status, processed.Summary)
	}
	if len(processed.Chapters) != len(processed.Transcript.Segments) {
		t.Errorf("chapters=%d segments=%d", len(processed.Chapters), len(processed.Transcript.Segments))
	}

	if _, err := SaveTranscript(ctx, env, SaveTranscriptInput{ID: created.ID, Text: "Ana: revisado"}); err != nil {
		t.Fatalf("SaveTranscript failed: %v", err)
	}

	exported, err := Export(ctx, env, ExportInput{ID: created.ID, Format: "txt"})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	payload, err := base64.StdEncoding.DecodeString(exported.Payload)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	for _, want := range []string{"Sprint Review", "ana@x.com", "Ana: revisado"} {
		if !strings.Contains(string(payload), want) {
			t.Errorf("payload missing %q", want)
		}
	}

	sent, err := SendMinutes(ctx, env, MinutesInput{ID: created.ID})
	if err != nil {
		t.Fatalf("SendMinutes failed: %v", err)
	}
	if sent.Meeting.EmailsSentAt == nil || len(sent.Preview) != 1 {
		t.Errorf("minutes = %+v", sent)
	}

	final, err := Get(ctx, env, GetInput{ID: created.ID})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	// create, process, transcript, export, minutes
	if final.Version != 5 {
		t.Errorf("Version = %d, want 5", final.Version)
	}
	if len(final.Exports) != 1 {
		t.Errorf("len(Exports) = %d, want 1", len(final.Exports))
	}

	stats, err := Stats(ctx, env)
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.Total != 1 || stats.Processed != 1 || stats.PendingEmails != 0 {
		t.Errorf("Stats = %+v", stats)
	}
}
