// Package postgres provides the Postgres-backed dedup/merge store.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/venturehunt/channelscout/internal/crawl"
)

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// Store implements crawl.Store on Postgres. Every mutation runs in its
// own transaction: one committed unit of work per channel merge/insert
// and per search finalize, so a crash between units leaves resumable
// state.
type Store struct {
	pool pool
}

// New connects a pool and ensures the schema exists. Existing tables are
// never reset.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	s := &Store{pool: p}
	if err := s.ensureSchema(ctx); err != nil {
		p.Close()
		return nil, err
	}
	return s, nil
}

// NewWithPool constructs a Store from an existing pool (primarily for
// testing). The schema is assumed present.
func NewWithPool(p pool) (*Store, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &Store{pool: p}, nil
}

// Close releases the underlying pool resources.
func (s *Store) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS searches (
	id BIGSERIAL PRIMARY KEY,
	query_key TEXT NOT NULL UNIQUE,
	result_count INT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS channels (
	id BIGSERIAL PRIMARY KEY,
	channel_id TEXT NOT NULL UNIQUE,
	title TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	keywords TEXT[] NOT NULL DEFAULT '{}',
	thumb_default TEXT NOT NULL DEFAULT '',
	thumb_medium TEXT NOT NULL DEFAULT '',
	thumb_high TEXT NOT NULL DEFAULT '',
	published_at TEXT NOT NULL DEFAULT '',
	custom_url TEXT NOT NULL DEFAULT '',
	default_language TEXT NOT NULL DEFAULT '',
	country TEXT NOT NULL DEFAULT '',
	view_count BIGINT NOT NULL DEFAULT 0,
	subscriber_count BIGINT NOT NULL DEFAULT 0,
	video_count BIGINT NOT NULL DEFAULT 0,
	made_for_kids BOOLEAN NOT NULL DEFAULT FALSE,
	contact_emails TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

func (s *Store) ensureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// HasSearch reports whether the query key has already been fully crawled.
func (s *Store) HasSearch(ctx context.Context, queryKey string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM searches WHERE query_key = $1)`,
		queryKey,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("query search %q: %w", queryKey, err)
	}
	return exists, nil
}

// RecordSearch marks a query as fully processed. The unique constraint on
// query_key makes recording the same query twice an error.
func (s *Store) RecordSearch(ctx context.Context, queryKey string, resultCount int) error {
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO searches (query_key, result_count) VALUES ($1, $2)`,
			queryKey, resultCount,
		); err != nil {
			return fmt.Errorf("insert search %q: %w", queryKey, err)
		}
		return nil
	})
}

// FindChannel returns the persisted record for channelID, or nil when the
// channel has not been ingested.
func (s *Store) FindChannel(ctx context.Context, channelID string) (*crawl.ChannelRecord, error) {
	var rec crawl.ChannelRecord
	err := s.pool.QueryRow(ctx, `
SELECT channel_id, title, description, keywords,
	thumb_default, thumb_medium, thumb_high,
	published_at, custom_url, default_language, country,
	view_count, subscriber_count, video_count, made_for_kids, contact_emails
FROM channels WHERE channel_id = $1`,
		channelID,
	).Scan(
		&rec.ChannelID, &rec.Title, &rec.Description, &rec.Keywords,
		&rec.ThumbDefault, &rec.ThumbMedium, &rec.ThumbHigh,
		&rec.PublishedAt, &rec.CustomURL, &rec.DefaultLanguage, &rec.Country,
		&rec.ViewCount, &rec.SubscriberCount, &rec.VideoCount, &rec.MadeForKids, &rec.ContactEmails,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query channel %s: %w", channelID, err)
	}
	return &rec, nil
}

// InsertChannel persists a newly discovered channel. Inserting an already
// known channel id violates the unique constraint and errors.
func (s *Store) InsertChannel(ctx context.Context, rec crawl.ChannelRecord) error {
	if rec.ChannelID == "" {
		return fmt.Errorf("channel id is required")
	}
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
INSERT INTO channels (
	channel_id, title, description, keywords,
	thumb_default, thumb_medium, thumb_high,
	published_at, custom_url, default_language, country,
	view_count, subscriber_count, video_count, made_for_kids, contact_emails
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
			rec.ChannelID, rec.Title, rec.Description, rec.Keywords,
			rec.ThumbDefault, rec.ThumbMedium, rec.ThumbHigh,
			rec.PublishedAt, rec.CustomURL, rec.DefaultLanguage, rec.Country,
			rec.ViewCount, rec.SubscriberCount, rec.VideoCount, rec.MadeForKids, rec.ContactEmails,
		); err != nil {
			return fmt.Errorf("insert channel %s: %w", rec.ChannelID, err)
		}
		return nil
	})
}

// MergeChannelKeywords unions keywords into an existing channel's set.
// Idempotent: merging the same keyword twice leaves the set unchanged.
func (s *Store) MergeChannelKeywords(ctx context.Context, channelID string, keywords []string) error {
	if len(keywords) == 0 {
		return nil
	}
	return s.withTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
UPDATE channels
SET keywords = ARRAY(SELECT DISTINCT kw FROM unnest(keywords || $2::text[]) AS kw),
	updated_at = now()
WHERE channel_id = $1`,
			channelID, keywords,
		)
		if err != nil {
			return fmt.Errorf("merge keywords into channel %s: %w", channelID, err)
		}
		if tag.RowsAffected() != 1 {
			return fmt.Errorf("merge keywords: channel %s not found", channelID)
		}
		return nil
	})
}

// withTx runs fn in a transaction. A failed commit is rolled back and the
// error propagates; the caller decides whether that aborts the crawl.
func (s *Store) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w (rollback also failed: %v)", err, rbErr)
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
