// Package store defines the Meeting Store capability and its in-memory
// implementation. Durable backends live in internal/db.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/meeting"
)

// MaxUpdateAttempts bounds the optimistic retry loop of versioned backends.
const MaxUpdateAttempts = 5

// MutateFunc edits a private copy of a meeting. Returning an error aborts
// the update and nothing is written.
type MutateFunc func(m *meeting.Meeting) error

// Store is the single source of truth for meetings.
//
// Every method returns copies: mutating a returned meeting never changes
// stored state. Update is an atomic read-modify-write; implementations bump
// Version and UpdatedAt on success.
type Store interface {
	Insert(ctx context.Context, m *meeting.Meeting) error
	Get(ctx context.Context, id string) (*meeting.Meeting, error)
	List(ctx context.Context) ([]*meeting.Meeting, error)
	Update(ctx context.Context, id string, fn MutateFunc) (*meeting.Meeting, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

// Memory is a process-lifetime Store guarded by a single mutex.
type Memory struct {
	mu       sync.RWMutex
	meetings map[string]*meeting.Meeting
	now      func() time.Time
}

// NewMemory returns an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{
		meetings: make(map[string]*meeting.Meeting),
		now:      time.Now,
	}
}

// Insert stores a new meeting. The id must not exist yet.
func (s *Memory) Insert(ctx context.Context, m *meeting.Meeting) error {
	if err := ctx.Err(); err != nil {
		return errors.NewCancelled("insert")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.meetings[m.ID]; ok {
		return errors.NewConflict(fmt.Sprintf("meeting already exists: %s", m.ID))
	}
	if m.Version == 0 {
		m.Version = 1
	}
	s.meetings[m.ID] = m.Clone()
	return nil
}

// Get returns a copy of the meeting or NOT_FOUND.
func (s *Memory) Get(ctx context.Context, id string) (*meeting.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("get")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.meetings[id]
	if !ok {
		return nil, errors.NewNotFound(id)
	}
	return m.Clone(), nil
}

// List returns copies of every meeting ordered by creation time, oldest first.
func (s *Memory) List(ctx context.Context) ([]*meeting.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("list")
	}
	s.mu.RLock()
	out := make([]*meeting.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		out = append(out, m.Clone())
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

// Update applies fn to a copy of the meeting and swaps it in when fn succeeds.
// The write lock is held for the whole call, so updates never interleave.
func (s *Memory) Update(ctx context.Context, id string, fn MutateFunc) (*meeting.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.NewCancelled("update")
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.meetings[id]
	if !ok {
		return nil, errors.NewNotFound(id)
	}

	draft := current.Clone()
	if err := fn(draft); err != nil {
		return nil, err
	}
	draft.ID = current.ID
	draft.CreatedAt = current.CreatedAt
	draft.Version = current.Version + 1
	draft.UpdatedAt = s.now().UTC()

	s.meetings[id] = draft
	return draft.Clone(), nil
}

// Count returns the number of stored meetings.
func (s *Memory) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.NewCancelled("count")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.meetings), nil
}

// Close is a no-op for the in-memory store.
func (s *Memory) Close() error { return nil }
