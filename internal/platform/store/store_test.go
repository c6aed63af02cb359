package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
)

func TestOpen_NoBackends(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, Config{AppName: "wardtpr-test"}, WithLogger(zerolog.Nop()))
	if err != nil || s == nil || s.PG != nil {
		t.Fatalf("Open = %+v, %v", s, err)
	}
	if err := s.Guard(ctx); err != nil {
		t.Fatalf("Guard: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestOpen_BadURL(t *testing.T) {
	s, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://nope"}})
	if err == nil || s != nil {
		t.Fatalf("Open = %+v, %v; want error", s, err)
	}
}

func TestGuard(t *testing.T) {
	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatal("nil store must fail")
	}

	s := &Store{PG: downRunner{}}
	err := s.Guard(context.Background())
	if err == nil || !strings.HasPrefix(err.Error(), "pg: ") {
		t.Fatalf("Guard = %v", err)
	}
}

type downRunner struct{ TxRunner }

func (downRunner) Ping(context.Context) error { return errors.New("connection refused") }

// fakePgx records the last statement and serves canned results
type fakePgx struct {
	sql  string
	args []any
	tag  pgconn.CommandTag
	err  error
	rows pgx.Rows
}

func (f *fakePgx) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.sql, f.args = sql, args
	return f.tag, f.err
}

func (f *fakePgx) Query(_ context.Context, sql string, args ...any) (pgx.Rows, error) {
	f.sql, f.args = sql, args
	return f.rows, f.err
}

func (f *fakePgx) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.sql, f.args = sql, args
	return f.rows
}

type cannedRows struct {
	pgx.Rows
	cols []string
}

func (r cannedRows) FieldDescriptions() []pgconn.FieldDescription {
	out := make([]pgconn.FieldDescription, len(r.cols))
	for i, c := range r.cols {
		out[i] = pgconn.FieldDescription{Name: c}
	}
	return out
}

func TestConn_Exec(t *testing.T) {
	f := &fakePgx{tag: pgconn.NewCommandTag("INSERT 0 3")}
	ct, err := conn{f}.Exec(context.Background(), "insert into ward_boundaries ...", "Kano")
	if err != nil || ct.RowsAffected() != 3 {
		t.Fatalf("Exec = %v, %v", ct, err)
	}
	if len(f.args) != 1 || f.args[0] != "Kano" {
		t.Fatalf("args = %v", f.args)
	}

	f.err = errors.New("boom")
	if ct, err := (conn{f}).Exec(context.Background(), "x"); err == nil || ct != nil {
		t.Fatalf("failed Exec = %v, %v", ct, err)
	}
}

func TestConn_QueryColumns(t *testing.T) {
	f := &fakePgx{rows: cannedRows{cols: []string{"ward_name", "lga_name"}}}
	rs, err := conn{f}.Query(context.Background(), "select ward_name, lga_name from ward_boundaries")
	if err != nil {
		t.Fatal(err)
	}
	if got := rs.Columns(); len(got) != 2 || got[1] != "lga_name" {
		t.Fatalf("Columns = %v", got)
	}

	f.err = errors.New("down")
	if rs, err := (conn{f}).Query(context.Background(), "x"); err == nil || rs != nil {
		t.Fatalf("failed Query = %v, %v", rs, err)
	}
}
