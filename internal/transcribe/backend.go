// Package transcribe produces transcript segments for a meeting. The
// bundled CorpusBackend is a deterministic stand-in for a speech-to-text
// service; real backends implement Backend.
package transcribe

import (
	"context"
	"fmt"
	"math"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
)

// Request describes the recording to transcribe.
type Request struct {
	MeetingID   string
	Title       string
	Language    string
	VideoSource meeting.VideoSource
}

// Backend turns a recording into ordered segments.
//
// Implementations must return a non-empty sequence with non-decreasing
// Start and End-Start == Duration. ValidateSegments checks this.
type Backend interface {
	Transcribe(ctx context.Context, req Request) ([]meeting.Segment, error)
}

// durationTolerance absorbs float rounding in End-Start == Duration.
const durationTolerance = 1e-6

// ValidateSegments enforces the Backend contract on any backend's output.
func ValidateSegments(segs []meeting.Segment) error {
	if len(segs) == 0 {
		return errors.NewInternal(fmt.Errorf("transcription backend returned no segments"))
	}
	seen := make(map[string]bool, len(segs))
	for i, s := range segs {
		if s.ID == "" {
			return errors.NewInternal(fmt.Errorf("segment %d has no id", i))
		}
		if seen[s.ID] {
			return errors.NewInternal(fmt.Errorf("duplicate segment id %q", s.ID))
		}
		seen[s.ID] = true
		if s.Start < 0 || s.End < s.Start {
			return errors.NewInternal(fmt.Errorf("segment %s has invalid range [%v, %v]", s.ID, s.Start, s.End))
		}
		if math.Abs((s.End-s.Start)-s.Duration) > durationTolerance {
			return errors.NewInternal(fmt.Errorf("segment %s duration %v does not match range [%v, %v]", s.ID, s.Duration, s.Start, s.End))
		}
		if i > 0 && s.Start < segs[i-1].Start {
			return errors.NewInternal(fmt.Errorf("segment %s starts before its predecessor", s.ID))
		}
	}
	return nil
}
