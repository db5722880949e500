package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/logger"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/store"
)

// SQLiteStore persists meetings as JSON documents in SQLite.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ store.Store = (*SQLiteStore)(nil)

// NewSQLiteStore wraps an initialized database (see Init).
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// DB exposes the underlying handle, mainly for tests.
func (s *SQLiteStore) DB() *sql.DB { return s.db }

// Insert stores a new meeting. A duplicate id is a CONFLICT.
func (s *SQLiteStore) Insert(ctx context.Context, m *meeting.Meeting) error {
	if m.Version == 0 {
		m.Version = 1
	}
	doc, err := encodeDoc(m)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO meetings (id, title, status, created_at, updated_at, version, doc)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		m.ID, m.Title, string(m.Status), m.CreatedAt.UnixMilli(), m.UpdatedAt.UnixMilli(), m.Version, string(doc),
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return errors.NewConflict(fmt.Sprintf("meeting already exists: %s", m.ID))
		}
		return wrapErr(ctx, "insert", err)
	}
	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Get retrieves a meeting by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*meeting.Meeting, error) {
	var (
		doc     string
		version int64
	)
	err := s.db.QueryRowContext(ctx, `SELECT doc, version FROM meetings WHERE id = ?`, id).Scan(&doc, &version)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, wrapErr(ctx, "get", err)
	}
	return decodeDoc([]byte(doc), version)
}

// List returns every meeting, oldest first.
func (s *SQLiteStore) List(ctx context.Context) ([]*meeting.Meeting, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT doc, version FROM meetings ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, wrapErr(ctx, "list", err)
	}
	defer rows.Close()

	meetings := []*meeting.Meeting{}
	for rows.Next() {
		var (
			doc     string
			version int64
		)
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, wrapErr(ctx, "list", err)
		}
		m, err := decodeDoc([]byte(doc), version)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapErr(ctx, "list", err)
	}
	return meetings, nil
}

// Update reads the meeting, applies fn, and writes it back only if nobody
// else did in between. Lost races are retried up to store.MaxUpdateAttempts.
func (s *SQLiteStore) Update(ctx context.Context, id string, fn store.MutateFunc) (*meeting.Meeting, error) {
	for attempt := 1; attempt <= store.MaxUpdateAttempts; attempt++ {
		current, err := s.Get(ctx, id)
		if err != nil {
			return nil, err
		}

		draft := current.Clone()
		if err := fn(draft); err != nil {
			return nil, err
		}
		draft.ID = current.ID
		draft.CreatedAt = current.CreatedAt
		draft.Version = current.Version + 1
		draft.UpdatedAt = s.now().UTC()

		doc, err := encodeDoc(draft)
		if err != nil {
			return nil, err
		}

		query := `
			UPDATE meetings
			SET title = ?, status = ?, updated_at = ?, version = ?, doc = ?
			WHERE id = ? AND version = ?
		`
		result, err := s.db.ExecContext(ctx, query,
			draft.Title, string(draft.Status), draft.UpdatedAt.UnixMilli(), draft.Version, string(doc),
			id, current.Version,
		)
		if err != nil {
			return nil, wrapErr(ctx, "update", err)
		}
		rowsAffected, err := result.RowsAffected()
		if err != nil {
			return nil, wrapErr(ctx, "update", err)
		}
		if rowsAffected == 1 {
			return draft, nil
		}
		logger.Debugf("meeting %s: version %d lost update race (attempt %d)", id, current.Version, attempt)
	}
	return nil, conflictError(id)
}

// Count returns the number of stored meetings.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM meetings`).Scan(&n); err != nil {
		return 0, wrapErr(ctx, "count", err)
	}
	return n, nil
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
