package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wardtpr/internal/core/cascade"
	phttp "wardtpr/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func serve(t *testing.T, d Deps, path string) (int, json.RawMessage) {
	t.Helper()
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), d)
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s: %v (%s)", path, err, rr.Body.String())
	}
	return rr.Code, env.Data
}

func TestReady(t *testing.T) {
	cases := []struct {
		name  string
		pg    Pinger
		code  int
		ready bool
		state string
	}{
		{"no database", nil, http.StatusOK, true, "skipped"},
		{"database up", pingFunc(func(context.Context) error { return nil }), http.StatusOK, true, "ok"},
		{"database down", pingFunc(func(context.Context) error { return errors.New("connection refused") }), http.StatusServiceUnavailable, false, "fail"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			code, data := serve(t, Deps{PG: tc.pg}, "/ready")
			var got Readiness
			if err := json.Unmarshal(data, &got); err != nil {
				t.Fatal(err)
			}
			if code != tc.code || got.Ready != tc.ready || got.Checks[0].Status != tc.state {
				t.Fatalf("code=%d readiness=%+v", code, got)
			}
		})
	}
}

func TestService_Uptime(t *testing.T) {
	start := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	d := Deps{Started: start, Now: func() time.Time { return start.Add(90 * time.Second) }}

	code, data := serve(t, d, "/service")
	var got Service
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if code != http.StatusOK || got.UptimeSeconds != 90 || !got.Started.Equal(start) {
		t.Fatalf("code=%d service=%+v", code, got)
	}

	if code, _ := serve(t, Deps{}, "/service"); code != http.StatusServiceUnavailable {
		t.Fatalf("unknown start = %d", code)
	}
}

func TestResolver(t *testing.T) {
	d := Deps{
		Thresholds:     cascade.Options{AdminMin: 0.7, PhoneticMin: 0.6, SubstringMinLen: 5},
		LexiconVersion: 3,
	}
	_, data := serve(t, d, "/resolver")
	var got Resolver
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.LexiconVersion != 3 || got.AdminMin != 0.7 || got.SubstringMinLen != 5 || got.Build.Service == "" {
		t.Fatalf("resolver = %+v", got)
	}
}

func TestHealthAndVersion(t *testing.T) {
	for _, p := range []string{"/health", "/version"} {
		if code, data := serve(t, Deps{}, p); code != http.StatusOK || len(data) == 0 {
			t.Errorf("%s = %d %s", p, code, data)
		}
	}
}
