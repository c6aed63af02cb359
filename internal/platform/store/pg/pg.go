// Package pg opens the postgres pool: query tracing through zerolog and a
// bounded wait for the server to accept connections.
package pg

import (
	"context"
	"fmt"
	"time"

	"wardtpr/internal/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Config configures the pool
type Config struct {
	URL      string
	AppName  string // reported as application_name
	MaxConns int32

	// Slow logs statements at or above this duration at warn; 0 disables
	Slow time.Duration
	// LogSQL logs every statement
	LogSQL bool

	ConnectRetries int           // default 20
	PingTimeout    time.Duration // default 3s
}

func (c Config) retries() int {
	if c.ConnectRetries > 0 {
		return c.ConnectRetries
	}
	return 20
}

func (c Config) pingTimeout() time.Duration {
	if c.PingTimeout > 0 {
		return c.PingTimeout
	}
	return 3 * time.Second
}

var newPool = pgxpool.NewWithConfig

// Connect builds a pool and blocks until a ping succeeds, the retries run
// out, or ctx ends
func Connect(ctx context.Context, cfg Config, log logger.Logger) (*pgxpool.Pool, error) {
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("pg: parse url: %w", err)
	}
	if cfg.MaxConns > 0 {
		pc.MaxConns = cfg.MaxConns
	}
	if cfg.AppName != "" {
		pc.ConnConfig.RuntimeParams["application_name"] = cfg.AppName
	}
	if cfg.Slow > 0 || cfg.LogSQL {
		pc.ConnConfig.Tracer = NewTracer(log, cfg.Slow, cfg.LogSQL)
	}

	pool, err := newPool(ctx, pc)
	if err != nil {
		return nil, fmt.Errorf("pg: pool: %w", err)
	}
	if err := waitReady(ctx, pool, cfg.retries(), cfg.pingTimeout()); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

type pinger interface {
	Ping(context.Context) error
}

// backoff doubles from 150ms and stops growing at 2s
var backoff = func(attempt int) time.Duration {
	d := 150 * time.Millisecond << attempt
	if d > 2*time.Second || d <= 0 {
		return 2 * time.Second
	}
	return d
}

func waitReady(ctx context.Context, p pinger, attempts int, perPing time.Duration) error {
	var last error
	for i := 0; i < attempts; i++ {
		pctx, cancel := context.WithTimeout(ctx, perPing)
		last = p.Ping(pctx)
		cancel()
		if last == nil {
			return nil
		}
		if i == attempts-1 {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff(i)):
		}
	}
	return fmt.Errorf("pg: not ready after %d attempts: %w", attempts, last)
}
