package ops

import (
	"context"
	"strings"
	"testing"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/pipeline"
)

func TestCaptions(t *testing.T) {
	env := newTestEnv(t)
	processed := processedTestMeeting(t, env, "Weekly")

	output, err := Captions(context.Background(), env, CaptionsInput{ID: processed.ID})
	if err != nil {
		t.Fatalf("Captions failed: %v", err)
	}
	if output.Cues != len(processed.Transcript.Segments) {
		t.Errorf("Cues = %d, want %d", output.Cues, len(processed.Transcript.Segments))
	}

	cues, err := pipeline.ParseVTT(strings.NewReader(output.VTT))
	if err != nil {
		t.Fatalf("ParseVTT failed: %v", err)
	}
	if len(cues) != len(processed.Transcript.Segments) {
		t.Fatalf("len(cues) = %d", len(cues))
	}
	for i, seg := range processed.Transcript.Segments {
		if cues[i].Start != seg.Start || cues[i].End != seg.End || cues[i].Speaker != seg.Speaker || cues[i].Text != seg.Text {
			t.Errorf("cue %d = %+v, segment = %+v", i, cues[i], seg)
		}
	}
}

func TestCaptions_RequiresProcessing(t *testing.T) {
	env := newTestEnv(t)
	created := createTestMeeting(t, env, "Weekly")

	_, err := Captions(context.Background(), env, CaptionsInput{ID: created.ID})
	if !errors.Is(err, errors.ErrPreconditionFailed) {
		t.Errorf("err = %v, want PRECONDITION_FAILED", err)
	}
}
