package net_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	pnet "wardtpr/internal/platform/net"

	chimw "github.com/go-chi/chi/v5/middleware"
)

func TestWithRequest_And_Getters(t *testing.T) {
	base := context.Background()

	t.Run("request id", func(t *testing.T) {
		ctx := pnet.WithRequest(base, "req-123")
		if got := pnet.RequestID(ctx); got != "req-123" {
			t.Fatalf("RequestID got %q want %q", got, "req-123")
		}
		if got := pnet.SessionID(ctx); got != "" {
			t.Fatalf("SessionID got %q want empty", got)
		}
	})

	t.Run("session id", func(t *testing.T) {
		ctx := pnet.WithSession(base, "s-1")
		if got := pnet.SessionID(ctx); got != "s-1" {
			t.Fatalf("SessionID got %q want %q", got, "s-1")
		}
	})

	t.Run("empty ids keep ctx", func(t *testing.T) {
		if pnet.WithRequest(base, "") != base || pnet.WithSession(base, "") != base {
			t.Fatalf("expected ctx to be unchanged for empty ids")
		}
	})
}

func TestLogContext(t *testing.T) {
	var seen string
	h := chimw.RequestID(pnet.LogContext(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = pnet.RequestID(r.Context())
	})))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(chimw.RequestIDHeader, "abc")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if seen != "abc" {
		t.Fatalf("request id = %q, want abc", seen)
	}
}
