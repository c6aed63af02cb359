package errors

import (
	stderrs "errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestDBErrorCode(t *testing.T) {
	cases := []struct {
		sqlstate string
		want     ErrorCode
	}{
		{"23505", ErrorCodeConflict},
		{"23502", ErrorCodeValidation},
		{"23514", ErrorCodeValidation},
		{"22001", ErrorCodeInvalidArgument},
		{"22P02", ErrorCodeInvalidArgument},
		{"22P05", ErrorCodeInvalidArgument},
		{"25006", ErrorCodeUnavailable},
		{"57P03", ErrorCodeUnavailable},
		{"42P01", ErrorCodeUnavailable},
		{"40001", ErrorCodeDB},
	}
	for _, c := range cases {
		got, ok := DBErrorCode(fmt.Errorf("query: %w", &pgconn.PgError{Code: c.sqlstate}))
		if !ok || got != c.want {
			t.Fatalf("DBErrorCode(%s) = %v,%v want %v", c.sqlstate, got, ok, c.want)
		}
	}
	if _, ok := DBErrorCode(stderrs.New("nope")); ok {
		t.Fatal("non pg error must report !ok")
	}
}

func TestFromPostgres(t *testing.T) {
	if FromPostgres(nil, "x") != nil || FromPostgresf(nil, "x %d", 1) != nil {
		t.Fatal("nil must stay nil")
	}

	err := FromPostgresf(&pgconn.PgError{Code: "23502", ColumnName: "ward_name"}, "load %s", "Kano")
	e, ok := As(err)
	if !ok || e.Code() != ErrorCodeValidation || e.Field() != "ward_name" {
		t.Fatalf("err = %+v", e)
	}
	if got := err.Error(); got[:9] != "load Kano" {
		t.Fatalf("message = %q", got)
	}

	plain := FromPostgres(stderrs.New("conn refused"), "ping")
	if CodeOf(plain) != ErrorCodeDB {
		t.Fatalf("non pg = %v", CodeOf(plain))
	}
	if e, _ := As(plain); e.Field() != "" {
		t.Fatal("no field expected for non pg error")
	}
}
