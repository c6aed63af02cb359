package pg

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	kit "wardtpr/internal/platform/testkit"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type flaky struct {
	failures int
	calls    int
}

func (f *flaky) Ping(context.Context) error {
	f.calls++
	if f.calls <= f.failures {
		return errors.New("starting up")
	}
	return nil
}

func fastBackoff(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &backoff, func(int) time.Duration { return time.Millisecond })
}

func TestWaitReady(t *testing.T) {
	fastBackoff(t)
	ctx := context.Background()

	p := &flaky{failures: 2}
	if err := waitReady(ctx, p, 5, time.Second); err != nil || p.calls != 3 {
		t.Fatalf("err=%v calls=%d", err, p.calls)
	}

	p = &flaky{failures: 10}
	err := waitReady(ctx, p, 3, time.Second)
	if err == nil || p.calls != 3 || !strings.Contains(err.Error(), "starting up") {
		t.Fatalf("err=%v calls=%d", err, p.calls)
	}
}

func TestWaitReady_Canceled(t *testing.T) {
	kit.Serial(t)
	kit.Swap(t, &backoff, func(int) time.Duration { return time.Hour })

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if err := waitReady(ctx, &flaky{failures: 10}, 5, time.Second); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v", err)
	}
}

func TestBackoff(t *testing.T) {
	if backoff(0) != 150*time.Millisecond || backoff(2) != 600*time.Millisecond || backoff(9) != 2*time.Second {
		t.Fatalf("backoff = %v %v %v", backoff(0), backoff(2), backoff(9))
	}
}

func TestConnect_PoolConfig(t *testing.T) {
	kit.Serial(t)
	var seen *pgxpool.Config
	boom := errors.New("no pool for you")
	kit.Swap(t, &newPool, func(_ context.Context, pc *pgxpool.Config) (*pgxpool.Pool, error) {
		seen = pc
		return nil, boom
	})

	_, err := Connect(context.Background(), Config{
		URL:      "postgres://u:p@localhost:5432/wards",
		AppName:  "wardtpr-api",
		MaxConns: 7,
		Slow:     time.Second,
	}, zerolog.Nop())
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v", err)
	}
	if seen.MaxConns != 7 || seen.ConnConfig.RuntimeParams["application_name"] != "wardtpr-api" {
		t.Fatalf("pool config = %+v", seen)
	}
	if _, ok := seen.ConnConfig.Tracer.(*Tracer); !ok {
		t.Fatalf("tracer = %T", seen.ConnConfig.Tracer)
	}
}

func TestConnect_BadURL(t *testing.T) {
	if _, err := Connect(context.Background(), Config{URL: "://"}, zerolog.Nop()); err == nil {
		t.Fatal("want parse error")
	}
}
