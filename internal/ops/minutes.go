package ops

import (
	"context"
	"strings"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/minutes"
)

// MinutesInput contains parameters for the SendMinutes operation.
type MinutesInput struct {
	ID string
}

// MinutesOutput contains the result of the SendMinutes operation.
type MinutesOutput struct {
	Meeting *meeting.Meeting  `json:"meeting"`
	Preview []minutes.Preview `json:"preview"`
}

// SendMinutes stamps emailsSentAt and returns one preview message per
// participant. Nothing is delivered; calling it again moves the timestamp.
func SendMinutes(ctx context.Context, env *Env, input MinutesInput) (_ *MinutesOutput, err error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	ctx, done := env.metrics().Track(ctx, "minutes", id)
	defer func() { done(err) }()

	now := env.now()
	updated, err := env.Store.Update(ctx, id, func(m *meeting.Meeting) error {
		if strings.TrimSpace(m.Summary) == "" {
			return errors.NewPreconditionFailed("transcript and summary have not been generated yet")
		}
		m.EmailsSentAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}

	preview := minutes.Build(updated)
	env.metrics().RecordMinutes(len(preview))
	return &MinutesOutput{
		Meeting: updated,
		Preview: preview,
	}, nil
}
