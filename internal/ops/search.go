package ops

import (
	"context"

	"github.com/hpungsan/callsnap/internal/pipeline"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	ID    string
	Query string // required, max 200 chars
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	MeetingID string           `json:"meeting_id"`
	Query     string           `json:"query"`
	Matches   []pipeline.Match `json:"matches"`
	Count     int              `json:"count"`
}

// Search finds segments of a meeting whose text contains the query,
// case-insensitively, in segment order.
func Search(ctx context.Context, env *Env, input SearchInput) (_ *SearchOutput, err error) {
	id, err := requireID(input.ID)
	if err != nil {
		return nil, err
	}

	ctx, done := env.metrics().Track(ctx, "search", id)
	defer func() { done(err) }()

	m, err := env.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	matches, err := pipeline.Search(m, input.Query)
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []pipeline.Match{}
	}

	return &SearchOutput{
		MeetingID: m.ID,
		Query:     input.Query,
		Matches:   matches,
		Count:     len(matches),
	}, nil
}
