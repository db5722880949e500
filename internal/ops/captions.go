package ops

import (
	"context"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/pipeline"
)

// CaptionsInput contains parameters for the Captions operation.
type CaptionsInput struct {
	ID string
}

// CaptionsOutput contains the caption track of a meeting.
type CaptionsOutput struct {
	MeetingID string `json:"meeting_id"`
	VTT       string `json:"vtt"`
	Cues      int    `json:"cues"`
}

// Captions returns the WebVTT track of a processed meeting.
func Captions(ctx context.Context, env *Env, input CaptionsInput) (_ *CaptionsOutput, err error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	ctx, done := env.metrics().Track(ctx, "captions", id)
	defer func() { done(err) }()

	m, err := env.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if m.Status != meeting.StatusProcessed {
		return nil, errors.NewPreconditionFailed("meeting has not been processed yet")
	}

	vtt := m.Accessibility.CaptionsVTT
	if vtt == "" {
		vtt = pipeline.BuildCaptions(m.Transcript.Segments)
	}
	return &CaptionsOutput{
		MeetingID: m.ID,
		VTT:       vtt,
		Cues:      len(m.Transcript.Segments),
	}, nil
}
