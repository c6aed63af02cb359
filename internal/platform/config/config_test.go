package config

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	kit "wardtpr/internal/platform/testkit"
)

func TestPrefixNests(t *testing.T) {
	c := New().Prefix("CORE_").Prefix("RESOLVE_")
	if got := c.key("ADMIN_MIN"); got != "CORE_RESOLVE_ADMIN_MIN" {
		t.Fatalf("key = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("SERVICE_PGSQL_")
	t.Setenv("SERVICE_PGSQL_DBURL", "  postgres://localhost/wards ")
	if got := c.MustString("DBURL"); got != "postgres://localhost/wards" {
		t.Fatalf("MustString = %q", got)
	}

	t.Setenv("SERVICE_PGSQL_BLANK", "   ")
	kit.MustPanic(t, func() { _ = c.MustString("BLANK") })
	kit.MustPanic(t, func() { _ = c.MustString("ABSENT") })
}

func TestMayScalars(t *testing.T) {
	c := New().Prefix("T_")
	t.Setenv("T_NAME", " wardtpr ")
	t.Setenv("T_WORKERS", " 6 ")
	t.Setenv("T_WORKERS_BAD", "six")
	t.Setenv("T_MIN", "0.82")
	t.Setenv("T_MIN_BAD", "high")
	t.Setenv("T_ON", "1")
	t.Setenv("T_ON_BAD", "nah")
	t.Setenv("T_TTL", "90s")
	t.Setenv("T_TTL_BAD", "soon")

	cases := []struct {
		name string
		got  any
		want any
	}{
		{"string set", c.MayString("NAME", "x"), "wardtpr"},
		{"string default", c.MayString("NOPE", "x"), "x"},
		{"int set", c.MayInt("WORKERS", 1), 6},
		{"int invalid", c.MayInt("WORKERS_BAD", 1), 1},
		{"float set", c.MayFloat64("MIN", 0.5), 0.82},
		{"float invalid", c.MayFloat64("MIN_BAD", 0.5), 0.5},
		{"bool set", c.MayBool("ON", false), true},
		{"bool invalid", c.MayBool("ON_BAD", false), false},
		{"duration set", c.MayDuration("TTL", time.Minute), 90 * time.Second},
		{"duration invalid", c.MayDuration("TTL_BAD", time.Minute), time.Minute},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, tc.got); diff != "" {
			t.Errorf("%s (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestMayCSV(t *testing.T) {
	c := New().Prefix("CORS_")
	def := []string{"*"}

	if diff := cmp.Diff(def, c.MayCSV("ORIGINS", def)); diff != "" {
		t.Fatalf("unset (-want +got):\n%s", diff)
	}

	t.Setenv("CORS_ORIGINS", " https://a.example , ,https://b.example")
	want := []string{"https://a.example", "https://b.example"}
	if diff := cmp.Diff(want, c.MayCSV("ORIGINS", def)); diff != "" {
		t.Fatalf("set (-want +got):\n%s", diff)
	}

	t.Setenv("CORS_ORIGINS", " , , ")
	if diff := cmp.Diff(def, c.MayCSV("ORIGINS", def)); diff != "" {
		t.Fatalf("only separators (-want +got):\n%s", diff)
	}
}
