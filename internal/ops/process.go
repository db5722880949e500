package ops

import (
	"context"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/logger"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/pipeline"
	"github.com/hpungsan/callsnap/internal/transcribe"
)

// ProcessInput contains parameters for the Process operation.
type ProcessInput struct {
	ID       string // required
	Style    string // optional, falls back to sticky settings then config
	Language string // optional, same fallback as Style

	// PreserveEdits keeps a manually edited transcript across the run. A custom
	// summary is kept only while it is the active one and no Style is given.
	PreserveEdits bool
}

// Process runs the full pipeline: segments, then every derived collection
// from that same segment set, then the summaries. All derived collections
// are replaced, never merged.
func Process(ctx context.Context, env *Env, input ProcessInput) (_ *meeting.Meeting, err error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	ctx, done := env.metrics().Track(ctx, "process", id)
	defer func() { done(err) }()

	current, err := env.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	segs, err := env.Backend.Transcribe(ctx, transcribe.Request{
		MeetingID:   current.ID,
		Title:       current.Title,
		Language:    env.resolveLanguage(input.Language, current),
		VideoSource: current.VideoSource,
	})
	if err != nil {
		return nil, errors.As(err)
	}
	if err := transcribe.ValidateSegments(segs); err != nil {
		return nil, err
	}
	if err := checkCancelled(ctx, "process"); err != nil {
		return nil, err
	}

	derived := pipeline.Derive(segs, env.Vocabulary)
	if err := checkCancelled(ctx, "process"); err != nil {
		return nil, err
	}

	now := env.now()
	updated, err := env.Store.Update(ctx, id, func(m *meeting.Meeting) error {
		style := env.resolveStyle(input.Style, m)
		language := env.resolveLanguage(input.Language, m)

		keepTranscript := input.PreserveEdits && m.Transcript.LastEditedAt != nil && m.Transcript.EditableText != ""
		custom := m.Summaries.Styles[meeting.CustomStyle]
		keepSummary := input.PreserveEdits && meeting.Normalize(input.Style) == "" &&
			m.Summaries.LastEditedAt != nil && custom != "" && m.Summaries.Default == custom

		derived.Apply(m, segs)
		m.Transcript.LastGeneratedAt = &now
		if !keepTranscript {
			m.Transcript.EditableText = derived.FullText
			m.Transcript.LastEditedAt = nil
		}

		res := pipeline.Summarize(pipeline.SourceOf(m), m.Summaries.Styles, pipeline.SummaryRequest{
			Style:         style,
			Language:      language,
			PreviousStyle: m.Settings.PreferredSummaryStyle,
		})
		m.Summaries.Styles = res.Styles
		m.Summaries.Language = res.Language
		m.Summaries.Default = res.Default
		preferred := res.Style
		if keepSummary {
			m.Summaries.Default = custom
			preferred = meeting.CustomStyle
		}
		m.Summary = m.Summaries.Default

		m.Status = meeting.StatusProcessed
		m.ProcessedAt = &now
		m.Settings = meeting.Settings{
			PreferredSummaryStyle: preferred,
			PreferredLanguage:     res.Language,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	env.metrics().RecordSegments(len(segs))
	logger.Debugf("processed meeting %s: %d segments, style %s", id, len(segs), updated.Settings.PreferredSummaryStyle)
	return updated, nil
}
