// Package module wires TPR workflow sessions into the API using modkit
package module

import (
	"context"
	"net/http"

	"wardtpr/internal/core/selection"
	modkit "wardtpr/internal/modkit"
	"wardtpr/internal/modkit/httpkit"
	str "wardtpr/internal/platform/strings"
	bdomain "wardtpr/internal/services/boundaries/domain"
	rsvc "wardtpr/internal/services/resolve/service"
	whttp "wardtpr/internal/services/workflow/http"
	wsvc "wardtpr/internal/services/workflow/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	opts   Options
	mws    []func(http.Handler) http.Handler
	ports  Ports

	svc *wsvc.Svc
}

// New builds the session service from CORE_WORKFLOW_*
func New(deps modkit.Deps, p *selection.Parser, res *rsvc.Resolver, src bdomain.Source, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("workflow"), modkit.WithPrefix("/sessions")}, opts...)

	o := FromConfig(deps.Cfg)
	svc := wsvc.New(p, res, src, o.Service)
	deps.Log.Info().
		Int("max_sessions", o.Service.MaxSessions).
		Dur("session_ttl", o.Service.SessionTTL).
		Int("skip_offer_after", o.Service.Machine.SkipOfferAfter).
		Msg("workflow ready")

	return &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		opts:   o,
		mws:    b.Mw,
		svc:    svc,
		ports:  Ports{Service: svc, Sessions: svc.Sessions},
	}
}

// Run expires idle sessions until ctx is done
func (m *Module) Run(ctx context.Context) { m.svc.Sessions.Run(ctx, m.opts.SweepEvery) }

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) {
		whttp.Register(rr, m.svc, m.opts.MaxBody)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }
