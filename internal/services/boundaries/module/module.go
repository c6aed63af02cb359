// Package module wires boundaries into the API using modkit
package module

import (
	"context"
	"net/http"

	modkit "wardtpr/internal/modkit"
	"wardtpr/internal/modkit/httpkit"
	str "wardtpr/internal/platform/strings"
	bhttp "wardtpr/internal/services/boundaries/http"
	brepo "wardtpr/internal/services/boundaries/repo"
	bsvc "wardtpr/internal/services/boundaries/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps   modkit.Deps
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler
	ports  Ports

	svc *bsvc.Svc
}

// New constructs the boundaries module over deps.PG
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build([]modkit.Option{modkit.WithName("boundaries"), modkit.WithPrefix("/boundaries")}, opts...)

	svc := bsvc.New(deps.PG, brepo.NewPG())
	return &Module{
		deps:   deps,
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		svc:    svc,
		ports:  Ports{Source: svc},
	}
}

// Migrate creates the boundary table when missing
func (m *Module) Migrate(ctx context.Context) error {
	if m.deps.PG == nil {
		return nil
	}
	if err := brepo.EnsureSchema(ctx, m.deps.PG); err != nil {
		return err
	}
	m.deps.Log.Info().Msg("boundary schema ready")
	return nil
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(rr httpkit.Router) { bhttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the module route prefix
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }
