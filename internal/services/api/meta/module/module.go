// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"wardtpr/internal/core/cascade"
	modkit "wardtpr/internal/modkit"
	"wardtpr/internal/modkit/httpkit"
	str "wardtpr/internal/platform/strings"

	metahttp "wardtpr/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	deps   metahttp.Deps
}

// Info is the resolver state reported under /meta/resolver
type Info struct {
	Thresholds     cascade.Options
	LexiconVersion int
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, info Info, opts ...modkit.Option) modkit.Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("meta"), modkit.WithPrefix("/meta")}, opts...)
	return &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		deps: metahttp.Deps{
			Started:        time.Now(),
			PG:             pinger(deps),
			Thresholds:     info.Thresholds,
			LexiconVersion: info.LexiconVersion,
		},
	}
}

// pinger is the database when it can be pinged, nil otherwise
func pinger(d modkit.Deps) metahttp.Pinger {
	if p, ok := d.PG.(metahttp.Pinger); ok {
		return p
	}
	return nil
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
