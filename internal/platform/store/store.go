// Package store opens the persistence backends and exposes them to repos
// through narrow query interfaces
package store

import (
	"context"
	"errors"
	"fmt"

	"wardtpr/internal/platform/logger"
	"wardtpr/internal/platform/store/pg"
)

// Row is a single result row
type Row interface {
	Scan(dest ...any) error
}

// Rows iterates a result set
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
	Close()
	Columns() []string
}

// CommandTag reports what a statement did
type CommandTag interface {
	String() string
	RowsAffected() int64
}

// RowQuerier is what repos query through
type RowQuerier interface {
	Exec(ctx context.Context, sql string, args ...any) (CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) Row
}

// TxRunner is a RowQuerier that can also open transactions
type TxRunner interface {
	RowQuerier
	Tx(ctx context.Context, fn func(q RowQuerier) error) error
}

// Store holds the opened backends. The zero value has none.
type Store struct {
	Log logger.Logger
	// PG is nil unless postgres was enabled
	PG TxRunner
}

// Option adjusts a Store before backends open
type Option func(*Store)

// WithLogger sets the logger backends trace through
func WithLogger(l logger.Logger) Option {
	return func(s *Store) { s.Log = l }
}

// Open brings up every enabled backend in cfg
func Open(ctx context.Context, cfg Config, opts ...Option) (*Store, error) {
	s := &Store{}
	for _, o := range opts {
		o(s)
	}

	if cfg.PG.Enabled {
		pool, err := pg.Connect(ctx, pg.Config{
			URL:            cfg.PG.URL,
			AppName:        cfg.AppName,
			MaxConns:       cfg.PG.MaxConns,
			Slow:           cfg.PG.Slow,
			LogSQL:         cfg.PG.LogSQL,
			ConnectRetries: cfg.PG.ConnectRetries,
			PingTimeout:    cfg.PG.PingTimeout,
		}, s.Log)
		if err != nil {
			return nil, err
		}
		s.PG = &pgBackend{conn: conn{pool}, pool: pool}
	}
	return s, nil
}

type pinger interface{ Ping(context.Context) error }

// Guard pings every opened backend
func (s *Store) Guard(ctx context.Context) error {
	if s == nil {
		return errors.New("store: nil")
	}
	if p, ok := s.PG.(pinger); ok {
		if err := p.Ping(ctx); err != nil {
			return fmt.Errorf("pg: %w", err)
		}
	}
	return nil
}

// Close releases every opened backend
func (s *Store) Close(context.Context) error {
	if c, ok := s.PG.(interface{ Close() }); ok {
		c.Close()
	}
	return nil
}
