package pg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func trace(t *testing.T, tr *Tracer, c *clock, took time.Duration, err error) map[string]any {
	t.Helper()
	var buf bytes.Buffer
	tr.log = zerolog.New(&buf)
	ctx := tr.TraceQueryStart(context.Background(), nil, pgx.TraceQueryStartData{
		SQL:  "select ward_name\n\t from ward_boundaries\n where state_name = $1",
		Args: []any{"Kano"},
	})
	c.t = c.t.Add(took)
	tr.TraceQueryEnd(ctx, nil, pgx.TraceQueryEndData{CommandTag: pgconn.NewCommandTag("SELECT 4"), Err: err})
	if buf.Len() == 0 {
		return nil
	}
	var m map[string]any
	if jerr := json.Unmarshal(buf.Bytes(), &m); jerr != nil {
		t.Fatalf("decode: %v", jerr)
	}
	return m
}

func TestTracer(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	quiet := NewTracer(zerolog.Nop(), 100*time.Millisecond, false)
	quiet.now = c.now

	if m := trace(t, quiet, c, 10*time.Millisecond, nil); m != nil {
		t.Fatalf("fast query logged: %v", m)
	}

	m := trace(t, quiet, c, 150*time.Millisecond, nil)
	if m["level"] != "warn" || m["slow"] != true || m["rows"] != float64(4) {
		t.Fatalf("slow = %v", m)
	}
	if m["sql"] != "select ward_name from ward_boundaries where state_name = $1" || m["args"] != float64(1) {
		t.Fatalf("sql fields = %v", m)
	}

	m = trace(t, quiet, c, time.Millisecond, errors.New("relation missing"))
	if m["level"] != "warn" || m["error"] != "relation missing" || m["slow"] != false {
		t.Fatalf("failed = %v", m)
	}

	all := NewTracer(zerolog.Nop(), 0, true)
	all.now = c.now
	if m := trace(t, all, c, time.Hour, nil); m["level"] != "info" || m["slow"] != false {
		t.Fatalf("all = %v", m)
	}
}

func TestTracer_NoStart(t *testing.T) {
	var buf bytes.Buffer
	tr := NewTracer(zerolog.New(&buf), 0, true)
	tr.TraceQueryEnd(context.Background(), nil, pgx.TraceQueryEndData{})
	if buf.Len() != 0 {
		t.Fatalf("logged without start: %s", buf.String())
	}
}
