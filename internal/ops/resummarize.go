package ops

import (
	"context"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/pipeline"
)

// ResummarizeInput contains parameters for the Resummarize operation.
type ResummarizeInput struct {
	ID       string // required
	Style    string // optional
	Language string // optional
}

// Resummarize reruns the summarizer over the current derived state without
// regenerating segments. Previously generated styles stay selectable.
func Resummarize(ctx context.Context, env *Env, input ResummarizeInput) (_ *meeting.Meeting, err error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	ctx, done := env.metrics().Track(ctx, "resummarize", id)
	defer func() { done(err) }()

	return env.Store.Update(ctx, id, func(m *meeting.Meeting) error {
		if m.Status != meeting.StatusProcessed {
			return errors.NewPreconditionFailed("meeting has not been processed yet")
		}

		res := pipeline.Summarize(pipeline.SourceOf(m), m.Summaries.Styles, pipeline.SummaryRequest{
			Style:         env.resolveStyle(input.Style, m),
			Language:      env.resolveLanguage(input.Language, m),
			PreviousStyle: m.Settings.PreferredSummaryStyle,
		})
		m.Summaries.Styles = res.Styles
		m.Summaries.Default = res.Default
		m.Summaries.Language = res.Language
		m.Summary = res.Default
		m.Settings = meeting.Settings{
			PreferredSummaryStyle: res.Style,
			PreferredLanguage:     res.Language,
		}
		return nil
	})
}
