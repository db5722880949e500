package ops

import (
	"context"

	"github.com/hpungsan/callsnap/internal/meeting"
)

// GetInput contains parameters for the Get operation.
type GetInput struct {
	ID string
}

// Get returns one meeting with every derived collection.
func Get(ctx context.Context, env *Env, input GetInput) (*meeting.Meeting, error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}
	return env.Store.Get(ctx, id)
}
