// @title         Ward TPR API
// @version       0.1.0
// @description   Guided TPR selection sessions, ward name resolution and boundary lookups

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"wardtpr/internal/modkit/repokit"
	"wardtpr/internal/platform/config"
	"wardtpr/internal/platform/logger"
	phttp "wardtpr/internal/platform/net/http"
	"wardtpr/internal/platform/store"

	"wardtpr/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// service-scoped config (CORE_API_*, CORE_RESOLVE_*, CORE_WORKFLOW_*)
	root := config.New()
	coreCfg := root.Prefix("CORE_")
	pgCfg := root.Prefix("SERVICE_PGSQL_") // pgCfg lives under SERVICE_PGSQL_*

	// bring up logging early
	l := logger.Get()

	// boundaries live in postgres; nothing else is persisted
	st, err := store.Open(
		ctx,
		store.Config{
			AppName: "wardtpr-api",
			PG: store.PGConfig{
				Enabled:  true,
				URL:      pgCfg.MustString("DBURL"),
				MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 4)),
				Slow:     pgCfg.MayDuration("SLOW", 500*time.Millisecond),
				LogSQL:   pgCfg.MayBool("LOG_SQL", false),
			},
		},
		store.WithLogger(*logger.Get()),
	)
	if err != nil {
		l.Panic().Err(err).Msg("store.Open failed")
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()
	repokit.MustGuard(ctx, st)

	// http server (reads CORE_API_PORT)
	srv := phttp.NewServer(coreCfg)

	// mount our API
	upkeep := api.Mount(
		srv.Router(),
		api.Options{
			Config:         coreCfg,
			Store:          st,
			Logger:         l,
			EnableSwagger:  coreCfg.MayBool("API_SWAGGER", true),
			EnableProfiler: coreCfg.MayBool("API_PROFILER", false),
			Migrate:        coreCfg.MayBool("API_MIGRATE", true),
		},
	)
	go upkeep(ctx)

	// run
	if err := srv.Run(ctx); err != nil {
		l.Panic().Err(err).Msg("http server stopped")
	}
}
