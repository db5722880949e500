package ops

import (
	"context"
	"fmt"
	"sort"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int    // default: 20, max: 100
	Offset int    // default: 0
	Status string // optional filter: scheduled or processed
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []meeting.MeetingSummary `json:"items"`
	Pagination Pagination               `json:"pagination"`
	Sort       string                   `json:"sort"`
}

// List returns meeting summaries, newest first, with pagination.
func List(ctx context.Context, env *Env, input ListInput) (*ListOutput, error) {
	var status meeting.Status
	if input.Status != "" {
		status = meeting.Status(meeting.Normalize(input.Status))
		if status != meeting.StatusScheduled && status != meeting.StatusProcessed {
			return nil, errors.NewInvalidRequest(fmt.Sprintf("status must be one of: scheduled, processed (got %q)", input.Status))
		}
	}

	// Apply limit defaults and bounds
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	all, err := env.Store.List(ctx)
	if err != nil {
		return nil, err
	}

	filtered := all[:0]
	for _, m := range all {
		if status == "" || m.Status == status {
			filtered = append(filtered, m)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		if !filtered[i].CreatedAt.Equal(filtered[j].CreatedAt) {
			return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
		}
		return filtered[i].ID > filtered[j].ID
	})

	total := len(filtered)
	items := []meeting.MeetingSummary{}
	for i := offset; i < total && len(items) < limit; i++ {
		items = append(items, filtered[i].ToSummary())
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}
