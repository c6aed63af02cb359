// Package api provides the HTTP API for the application
package api

import (
	"context"
	"time"

	"wardtpr/internal/core/lexicon"
	"wardtpr/internal/core/selection"
	"wardtpr/internal/platform/config"
	"wardtpr/internal/platform/logger"
	phttp "wardtpr/internal/platform/net/http"
	"wardtpr/internal/platform/net/middleware"
	"wardtpr/internal/platform/store"

	"wardtpr/internal/modkit"
	"wardtpr/internal/modkit/httpkit"
	"wardtpr/internal/modkit/module"
	"wardtpr/internal/modkit/swaggerkit"

	metamod "wardtpr/internal/services/api/meta/module"
	boundariesmod "wardtpr/internal/services/boundaries/module"
	resolvemod "wardtpr/internal/services/resolve/module"
	workflowmod "wardtpr/internal/services/workflow/module"
)

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	EnableSwagger  bool
	EnableProfiler bool
	// Migrate creates missing tables at mount
	Migrate bool
}

// Mount mounts the API service onto the given router. The returned function runs
// background upkeep (session expiry) until its context is done.
func Mount(r phttp.Router, opt Options) func(context.Context) {
	// shared deps for modules
	deps := modkit.Deps{
		Cfg: opt.Config,
		PG:  opt.Store.PG,
	}
	if opt.Logger != nil {
		deps.Log = *opt.Logger
	}

	lx, err := lexicon.Load()
	if err != nil {
		panic("api: lexicon: " + err.Error())
	}
	parser := selection.New(lx, selection.DefaultOptions())

	// boundaries own the Source port the resolver and sessions read from
	boundaries := boundariesmod.New(deps)
	src := module.MustPortsOf[boundariesmod.Ports](boundaries).Source
	if opt.Migrate {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		err := boundaries.Migrate(ctx)
		cancel()
		if err != nil {
			panic("api: boundaries schema: " + err.Error())
		}
	}

	// resolve is CPU bound; cap concurrent runs and queue the rest
	jsonOnly := middleware.AllowContentType("application/json")
	throttle := middleware.ThrottleBacklog(
		opt.Config.MayInt("API_RESOLVE_INFLIGHT", 8),
		opt.Config.MayInt("API_RESOLVE_BACKLOG", 64),
		opt.Config.MayDuration("API_RESOLVE_WAIT", 30*time.Second),
	)

	resolve := resolvemod.New(deps, lx, src, modkit.WithMiddlewares(jsonOnly, throttle))
	resolver := module.MustPortsOf[resolvemod.Ports](resolve).Resolver

	sessions := workflowmod.New(deps, parser, resolver, src, modkit.WithMiddlewares(jsonOnly, throttle))

	mods := []module.Module{
		metamod.New(deps, metamod.Info{Thresholds: resolver.Options(), LexiconVersion: lx.Version}),
		boundaries,
		resolve,
		sessions,
	}

	// versioned API with a common middleware stack
	httpkit.MountAPIV1(r, httpkit.CommonStack(httpkit.StackFromConfig(opt.Config)), func(api httpkit.Router) {
		// Swagger + profiler
		swaggerkit.Mount(r, opt.EnableSwagger)
		phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

		for _, m := range mods {
			m.MountRoutes(api)
			deps.Log.Debug().Str("module", m.Name()).Str("prefix", m.Prefix()).Msg("mounted")
		}
	})

	return sessions.Run
}
