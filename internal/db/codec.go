package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
)

// encodeDoc serializes the full meeting as the row document.
func encodeDoc(m *meeting.Meeting) ([]byte, error) {
	data, err := json.Marshal(m)
	if err != nil {
		return nil, errors.NewInternal(fmt.Errorf("encode meeting %s: %w", m.ID, err))
	}
	return data, nil
}

// decodeDoc restores a meeting; the row's version column is authoritative.
func decodeDoc(data []byte, version int64) (*meeting.Meeting, error) {
	m := &meeting.Meeting{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("decode meeting: %w", err))
	}
	m.Version = version
	return m, nil
}

// wrapErr maps driver errors, reporting context cancellation as CANCELLED.
func wrapErr(ctx context.Context, op string, err error) error {
	if ctx.Err() != nil {
		return errors.NewCancelled(op)
	}
	if _, ok := err.(*errors.CallSnapError); ok {
		return err
	}
	return errors.NewInternal(err)
}

func conflictError(id string) error {
	return errors.NewConflict(fmt.Sprintf("meeting %s was modified concurrently; retry the request", id))
}
