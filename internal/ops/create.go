package ops

import (
	"context"
	"time"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/pipeline"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Title        string                // default: "Reunião sem título"
	ScheduledAt  time.Time             // default: now
	Participants []meeting.Participant // required, at least one
	VideoSource  meeting.VideoSource   // default: upload

	// Optional sticky defaults for later processing runs
	SummaryStyle string
	Language     string
}

// Create validates and stores a new scheduled meeting.
func Create(ctx context.Context, env *Env, input CreateInput) (_ *meeting.Meeting, err error) {
	ctx, done := env.metrics().Track(ctx, "create", "")
	defer func() { done(err) }()

	participants, err := meeting.ValidateParticipants(input.Participants)
	if err != nil {
		return nil, err
	}
	video, err := meeting.NormalizeVideoSource(input.VideoSource)
	if err != nil {
		return nil, err
	}

	now := env.now()
	id, err := generateULID(now)
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	scheduledAt := input.ScheduledAt
	if scheduledAt.IsZero() {
		scheduledAt = now
	}

	var language string
	if input.Language != "" {
		language = pipeline.CanonicalLanguage(input.Language)
	}

	m := &meeting.Meeting{
		ID:           id,
		Title:        meeting.NormalizeTitle(input.Title),
		ScheduledAt:  scheduledAt.UTC(),
		Participants: participants,
		Status:       meeting.StatusScheduled,
		VideoSource:  video,
		Transcript: meeting.Transcript{
			Segments: []meeting.Segment{},
		},
		Summaries: meeting.Summaries{
			Styles: map[string]string{},
		},
		Chapters: []meeting.Chapter{},
		Analysis: meeting.Analysis{
			Topics:   []string{},
			Keywords: []string{},
		},
		SearchIndex: []meeting.SearchEntry{},
		Highlights:  []string{},
		ActionItems: []string{},
		Exports:     []meeting.ExportDescriptor{},
		Settings: meeting.Settings{
			PreferredSummaryStyle: meeting.Normalize(input.SummaryStyle),
			PreferredLanguage:     language,
		},
		CreatedAt: now,
		UpdatedAt: now,
		Version:   1,
	}

	if err := env.Store.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}
