package module

import (
	"strings"
	"testing"

	phttp "wardtpr/internal/platform/net/http"
)

type sourcePort interface{ States() []string }
type resolverPort interface{ Resolve(string) string }

type fakeSource struct{}

func (fakeSource) States() []string { return []string{"Adamawa"} }

type fakeResolver struct{}

func (fakeResolver) Resolve(s string) string { return s }

type bundle struct {
	Source   sourcePort
	Resolver resolverPort
	hidden   resolverPort
}

type stub struct{ ports any }

func (s stub) MountRoutes(phttp.Router) {}
func (s stub) Ports() any               { return s.ports }
func (s stub) Name() string             { return "stub" }
func (s stub) Prefix() string           { return "/stub" }

func TestPortsOf_FindsFieldByInterface(t *testing.T) {
	m := stub{ports: bundle{Source: fakeSource{}, Resolver: fakeResolver{}}}

	src, ok := PortsOf[sourcePort](m)
	if !ok || src.States()[0] != "Adamawa" {
		t.Fatalf("source: ok=%v", ok)
	}
	if _, ok := PortsOf[resolverPort](m); !ok {
		t.Fatal("resolver not found")
	}
}

func TestPortsOf_DirectAndMissing(t *testing.T) {
	if _, ok := PortsOf[sourcePort](stub{ports: fakeSource{}}); !ok {
		t.Fatal("direct implementation not found")
	}
	if _, ok := PortsOf[sourcePort](stub{}); ok {
		t.Fatal("nil ports must not match")
	}
	// unexported fields are skipped
	if _, ok := PortsOf[resolverPort](stub{ports: bundle{hidden: fakeResolver{}}}); ok {
		t.Fatal("unexported field must not match")
	}
	if _, ok := PortsOf[sourcePort](stub{ports: 42}); ok {
		t.Fatal("non struct ports must not match")
	}
}

func TestMustPortsOf_PanicsWithModuleName(t *testing.T) {
	defer func() {
		v := recover()
		msg, _ := v.(string)
		if !strings.Contains(msg, "stub") {
			t.Fatalf("panic = %v", v)
		}
	}()
	MustPortsOf[sourcePort](stub{})
}
