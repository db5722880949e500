package ops

import (
	"context"
	"testing"

	"github.com/hpungsan/callsnap/internal/errors"
)

func TestResummarize_RequiresProcessedMeeting(t *testing.T) {
	env := newTestEnv(t)
	created := createTestMeeting(t, env, "Weekly")

	_, err := Resummarize(context.Background(), env, ResummarizeInput{ID: created.ID, Style: "tldr"})
	if !errors.Is(err, errors.ErrPreconditionFailed) {
		t.Errorf("err = %v, want PRECONDITION_FAILED", err)
	}
}

func TestResummarize_SwitchesStyleKeepsSegments(t *testing.T) {
	env := newTestEnv(t)
	processed := processedTestMeeting(t, env, "Weekly")

	m, err := Resummarize(context.Background(), env, ResummarizeInput{ID: processed.ID, Style: "narrative", Language: "en-US"})
	if err != nil {
		t.Fatalf("Resummarize failed: %v", err)
	}
	if m.Summary != m.Summaries.Styles["narrative"] {
		t.Errorf("Summary = %q, want narrative text", m.Summary)
	}
	if m.Summaries.Language != "en-US" || m.Settings.PreferredLanguage != "en-US" {
		t.Errorf("language not updated: %q / %q", m.Summaries.Language, m.Settings.PreferredLanguage)
	}
	if m.Settings.PreferredSummaryStyle != "narrative" {
		t.Errorf("PreferredSummaryStyle = %q, want narrative", m.Settings.PreferredSummaryStyle)
	}
	if len(m.Transcript.Segments) != len(processed.Transcript.Segments) {
		t.Error("resummarize must not regenerate segments")
	}
	if m.Transcript.Segments[0].ID != processed.Transcript.Segments[0].ID {
		t.Error("segments should be untouched")
	}
}

func TestResummarize_CustomStyleReselectable(t *testing.T) {
	env := newTestEnv(t)
	processed := processedTestMeeting(t, env, "Weekly")

	if _, err := SaveSummary(context.Background(), env, SaveSummaryInput{ID: processed.ID, Text: "hand written"}); err != nil {
		t.Fatalf("SaveSummary failed: %v", err)
	}
	m, err := Resummarize(context.Background(), env, ResummarizeInput{ID: processed.ID, Style: "bullets"})
	if err != nil {
		t.Fatalf("Resummarize failed: %v", err)
	}
	if m.Summary == "hand written" {
		t.Error("resummarize should move off the custom summary")
	}

	m, err = Resummarize(context.Background(), env, ResummarizeInput{ID: processed.ID, Style: "custom"})
	if err != nil {
		t.Fatalf("Resummarize failed: %v", err)
	}
	if m.Summary != "hand written" {
		t.Errorf("Summary = %q, want the custom summary back", m.Summary)
	}
}
