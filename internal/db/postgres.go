package db

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hpungsan/callsnap/internal/config"
	"github.com/hpungsan/callsnap/internal/errors"
	"github.com/hpungsan/callsnap/internal/logger"
	"github.com/hpungsan/callsnap/internal/meeting"
	"github.com/hpungsan/callsnap/internal/store"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

const postgresSchema = `
CREATE TABLE IF NOT EXISTS meetings (
  id         TEXT PRIMARY KEY,
  title      TEXT NOT NULL,
  status     TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL,
  updated_at TIMESTAMPTZ NOT NULL,
  version    BIGINT NOT NULL,
  doc        JSONB NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_meetings_created ON meetings (created_at DESC, id DESC);
CREATE INDEX IF NOT EXISTS idx_meetings_status ON meetings (status);
`

// PostgresStore persists meetings as JSONB documents in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	now  func() time.Time
}

var _ store.Store = (*PostgresStore)(nil)

// OpenPostgres connects to dsn, applies pool limits from cfg and ensures the schema.
func OpenPostgres(ctx context.Context, dsn string, cfg *config.Config) (*PostgresStore, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg != nil && cfg.DBMaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.DBMaxOpenConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres schema: %w", err)
	}
	return &PostgresStore{pool: pool, now: time.Now}, nil
}

// Insert stores a new meeting. A duplicate id is a CONFLICT.
func (s *PostgresStore) Insert(ctx context.Context, m *meeting.Meeting) error {
	if m.Version == 0 {
		m.Version = 1
	}
	doc, err := encodeDoc(m)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO meetings (id, title, status, created_at, updated_at, version, doc)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, m.ID, m.Title, string(m.Status), m.CreatedAt, m.UpdatedAt, m.Version, doc)
	if err != nil {
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return errors.NewConflict(fmt.Sprintf("meeting already exists: %s", m.ID))
		}
		return wrapErr(ctx, "insert", err)
	}
	return nil
}

// Get retrieves a meeting by id.
func (s *PostgresStore) Get(ctx context.Context, id string) (*meeting.Meeting, error) {
	var (
		doc     []byte
		version int64
	)
	err := s.pool.QueryRow(ctx, `SELECT doc, version FROM meetings WHERE id = $1`, id).Scan(&doc, &version)
	if err == pgx.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, wrapErr(ctx, "get", err)
	}
	return decodeDoc(doc, version)
}

// List returns every meeting, oldest first.
func (s *PostgresStore) List(ctx context.Context) ([]*meeting.Meeting, error) {
	rows, err := s.pool.Query(ctx, `SELECT doc, version FROM meetings ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, wrapErr(ctx, "list", err)
	}
	defer rows.Close()

	meetings := []*meeting.Meeting{}
	for rows.Next() {
		var (
			doc     []byte
			version int64
		)
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, wrapErr(ctx, "list", err)
		}
		m, err := decodeDoc(doc, version)
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

// Update is the optimistic read-modify-write of SQLiteStore.Update over pgx.
func (s *PostgresStore) Update(ctx context.Context, id string, fn store.MutateFunc) (*meeting.Meeting, error) {
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

		tag, err := s.pool.Exec(ctx, `
			UPDATE meetings
			SET title = $1, status = $2, updated_at = $3, version = $4, doc = $5
			WHERE id = $6 AND version = $7
		`, draft.Title, string(draft.Status), draft.UpdatedAt, draft.Version, doc, id, current.Version)
		if err != nil {
			return nil, wrapErr(ctx, "update", err)
		}
		if tag.RowsAffected() == 1 {
			return draft, nil
		}
		logger.Debugf("meeting %s: version %d lost update race (attempt %d)", id, current.Version, attempt)
	}
	return nil, conflictError(id)
}

// Count returns the number of stored meetings.
func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM meetings`).Scan(&n); err != nil {
		return 0, wrapErr(ctx, "count", err)
	}
	return n, nil
}

// Close releases the pool.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
