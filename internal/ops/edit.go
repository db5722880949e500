package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
)

// SaveTranscriptInput contains parameters for the SaveTranscript operation.
type SaveTranscriptInput struct {
	ID   string
	Text string // required, trimmed
}

// SaveTranscript stores a manually corrected transcript. Only the editable
// text and its timestamp change; segments and derived data are untouched.
func SaveTranscript(ctx context.Context, env *Env, input SaveTranscriptInput) (_ *meeting.Meeting, err error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	ctx, done := env.metrics().Track(ctx, "save_transcript", id)
	defer func() { done(err) }()
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.NewInvalidRequest("transcript text must not be empty")
	}

	now := env.now()
	return env.Store.Update(ctx, id, func(m *meeting.Meeting) error {
		m.Transcript.EditableText = text
		m.Transcript.LastEditedAt = &now
		return nil
	})
}

// SaveSummaryInput contains parameters for the SaveSummary operation.
type SaveSummaryInput struct {
	ID   string
	Text string // required, trimmed
}

// SaveSummary stores a manual summary under the "custom" style and makes it
// the active one until the next resummarize or processing run.
func SaveSummary(ctx context.Context, env *Env, input SaveSummaryInput) (_ *meeting.Meeting, err error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	ctx, done := env.metrics().Track(ctx, "save_summary", id)
	defer func() { done(err) }()
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, errors.NewInvalidRequest("summary text must not be empty")
	}

	now := env.now()
	return env.Store.Update(ctx, id, func(m *meeting.Meeting) error {
		if m.Summaries.Styles == nil {
			m.Summaries.Styles = map[string]string{}
		}
		m.Summaries.Styles[meeting.CustomStyle] = text
		m.Summaries.Default = text
		m.Summaries.LastEditedAt = &now
		m.Summary = text
		return nil
	})
}
