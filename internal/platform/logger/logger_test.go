package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		" DEBUG ":  zerolog.DebugLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.InfoLevel,
		"chatty":   zerolog.InfoLevel,
		"disabled": zerolog.Disabled,
	}
	for in, want := range cases {
		if got := level(in); got != want {
			t.Errorf("level(%q) = %v, want %v", in, got, want)
		}
	}
}

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	var m map[string]any
	if err := json.Unmarshal(lines[len(lines)-1], &m); err != nil {
		t.Fatalf("decode %q: %v", buf.String(), err)
	}
	return m
}

func TestBuild_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "info", Format: "json", Service: "wardtpr-test", Writer: &buf})

	l.Debug().Msg("dropped")
	if buf.Len() != 0 {
		t.Fatalf("debug should be filtered at info: %s", buf.String())
	}

	l.Info().Str("state", "kano").Msg("boundaries loaded")
	m := lastLine(t, &buf)
	if m["service"] != "wardtpr-test" || m["state"] != "kano" || m["message"] != "boundaries loaded" {
		t.Fatalf("fields = %v", m)
	}
}

func TestBuild_Sampling(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Format: "json", Writer: &buf, SampleEvery: 3})
	for i := 0; i < 6; i++ {
		l.Info().Int("i", i).Msg("tick")
	}
	if n := bytes.Count(buf.Bytes(), []byte("\n")); n != 2 {
		t.Fatalf("sampled lines = %d, want 2", n)
	}
}

func TestContextIDs(t *testing.T) {
	base := context.Background()
	if WithRequest(base, "") != base || WithSession(base, "") != base {
		t.Fatal("empty ids must not wrap the context")
	}

	ctx := WithSession(WithRequest(base, "req-9"), "sess-4")
	if ctx.Value(requestKey) != "req-9" || ctx.Value(sessionKey) != "sess-4" {
		t.Fatalf("ids not stored")
	}
	// C must not panic on a bare context
	_ = C(base)
	_ = C(ctx)
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "")
	t.Setenv("LOG_CALLER", "yes")
	t.Setenv("LOG_SAMPLE_EVERY", "4")

	got := FromEnv()
	want := Options{Level: "warn", Format: "json", Service: "wardtpr", Caller: true, SampleEvery: 4}
	if got != want {
		t.Fatalf("FromEnv = %+v, want %+v", got, want)
	}
}
