// Package module wires ward name resolution into the API using modkit
package module

import (
	"net/http"

	"wardtpr/internal/core/lexicon"
	modkit "wardtpr/internal/modkit"
	"wardtpr/internal/modkit/httpkit"
	str "wardtpr/internal/platform/strings"
	bdomain "wardtpr/internal/services/boundaries/domain"
	rhttp "wardtpr/internal/services/resolve/http"
	rsvc "wardtpr/internal/services/resolve/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports

	svc *rsvc.Svc
}

// New builds the resolver from CORE_RESOLVE_* and mounts it on src.
// Invalid thresholds panic at startup.
func New(deps modkit.Deps, lx *lexicon.Lexicon, src bdomain.Source, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("resolve"), modkit.WithPrefix("/resolve")}, opts...)

	o := FromConfig(deps.Cfg)
	res, err := rsvc.NewResolver(rsvc.Config{Workers: o.Workers, Cascade: o.Cascade}, lx)
	if err != nil {
		panic("resolve: " + err.Error())
	}
	deps.Log.Info().
		Int("workers", o.Workers).
		Float64("admin_min", o.Cascade.AdminMin).
		Float64("phonetic_min", o.Cascade.PhoneticMin).
		Int("lexicon", lx.Version).
		Msg("resolver ready")

	svc := rsvc.New(res, src)
	return &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
		ports:  Ports{Resolver: res, Service: svc},
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) { rhttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }
