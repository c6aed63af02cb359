package strings

import (
	"testing"

	kit "wardtpr/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	def := []string{"GET"}
	if got := IfEmpty(nil, def); len(got) != 1 || got[0] != "GET" {
		t.Fatalf("nil -> %v", got)
	}
	if got := IfEmpty([]string{"POST", "DELETE"}, def); len(got) != 2 {
		t.Fatalf("kept -> %v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	for in, want := range map[string]string{
		"sessions":     "/sessions",
		" /resolve/ ":  "/resolve",
		"//boundaries": "/boundaries",
	} {
		if got := MustPrefix(in); got != want {
			t.Errorf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestMustString(t *testing.T) {
	if MustString("resolve", "module name") != "resolve" {
		t.Fatal("value not returned")
	}
	kit.MustPanic(t, func() { MustString("  ", "module name") })
}

func TestPtr(t *testing.T) {
	if Ptr("") != nil {
		t.Fatal("empty should be nil")
	}
	if p := Ptr("Fagge"); p == nil || *p != "Fagge" {
		t.Fatalf("Ptr = %v", p)
	}
}
