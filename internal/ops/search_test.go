package ops

import (
	"context"
	"strings"
	"testing"

	"github.com/hpungsan/callsnap/internal/errors"
)

func TestSearch_CaseInsensitiveInSegmentOrder(t *testing.T) {
	env := newTestEnv(t)
	processed := processedTestMeeting(t, env, "Weekly")

	output, err := Search(context.Background(), env, SearchInput{ID: processed.ID, Query: "  ROADMAP "})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if output.Count != 1 || len(output.Matches) != 1 {
		t.Fatalf("Count = %d, want 1", output.Count)
	}
	match := output.Matches[0]
	if match.SegmentID != "seg-1" || match.Speaker != "Speaker 1" {
		t.Errorf("match = %+v", match)
	}
	if !strings.Contains(match.Text, "roadmap") {
		t.Errorf("Text = %q", match.Text)
	}

	output, err = Search(context.Background(), env, SearchInput{ID: processed.ID, Query: "e"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	for i := 1; i < len(output.Matches); i++ {
		if output.Matches[i].Start < output.Matches[i-1].Start {
			t.Error("matches should be in segment order")
		}
	}
}

func TestSearch_NoMatches(t *testing.T) {
	env := newTestEnv(t)
	processed := processedTestMeeting(t, env, "Weekly")

	output, err := Search(context.Background(), env, SearchInput{ID: processed.ID, Query: "kubernetes"})
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if output.Count != 0 || output.Matches == nil {
		t.Errorf("Matches = %v, want empty non-nil", output.Matches)
	}
}

func TestSearch_Errors(t *testing.T) {
	env := newTestEnv(t)
	processed := processedTestMeeting(t, env, "Weekly")

	if _, err := Search(context.Background(), env, SearchInput{ID: processed.ID, Query: "   "}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("blank query err = %v, want INVALID_REQUEST", err)
	}
	long := strings.Repeat("a", 201)
	if _, err := Search(context.Background(), env, SearchInput{ID: processed.ID, Query: long}); !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("long query err = %v, want INVALID_REQUEST", err)
	}
	if _, err := Search(context.Background(), env, SearchInput{ID: "missing", Query: "x"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("missing id err = %v, want NOT_FOUND", err)
	}
}
