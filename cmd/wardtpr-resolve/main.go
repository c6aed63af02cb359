// Command wardtpr-resolve resolves a newline separated list of raw ward names for one
// state against the boundary store and prints the report as JSON.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"wardtpr/internal/core/lexicon"
	"wardtpr/internal/modkit"
	"wardtpr/internal/modkit/module"
	"wardtpr/internal/platform/config"
	"wardtpr/internal/platform/logger"
	pnet "wardtpr/internal/platform/net"
	"wardtpr/internal/platform/store"

	bdomain "wardtpr/internal/services/boundaries/domain"
	boundariesmod "wardtpr/internal/services/boundaries/module"
	bsvc "wardtpr/internal/services/boundaries/service"
	resolvemod "wardtpr/internal/services/resolve/module"
	rsvc "wardtpr/internal/services/resolve/service"

	"github.com/google/uuid"
)

func mustSetEnv(k, v string) {
	if v != "" {
		_ = os.Setenv(k, v)
	}
}

type options struct {
	state    string
	in       string
	features string
	pretty   bool
}

func main() {
	var (
		opt     options
		workers int
	)
	flag.StringVar(&opt.state, "state", "", "state whose boundaries to match against")
	flag.StringVar(&opt.in, "in", "-", "file of raw names, one per line (- for stdin)")
	flag.StringVar(&opt.features, "features", "", "JSON array of boundary features; skips the database")
	flag.IntVar(&workers, "workers", 0, "concurrency (0 = GOMAXPROCS)")
	flag.BoolVar(&opt.pretty, "pretty", false, "indent the JSON report")
	flag.Parse()

	if opt.state == "" {
		log.Fatal("-state is required")
	}
	if workers > 0 {
		mustSetEnv("CORE_RESOLVE_WORKERS", strconv.Itoa(workers))
	}

	ctx := pnet.WithRequest(context.Background(), uuid.NewString())
	if err := run(ctx, opt, os.Stdout); err != nil {
		logger.C(ctx).Error().Err(err).Str("state", opt.state).Msg("resolve failed")
		os.Exit(1)
	}
}

// run owns every resource it opens, so main can exit once it returns
func run(ctx context.Context, opt options, out io.Writer) error {
	root := config.New()
	l := logger.Get()

	names, err := readNames(opt.in)
	if err != nil {
		return fmt.Errorf("read names: %w", err)
	}

	deps := modkit.Deps{Cfg: root.Prefix("CORE_"), Log: *l}

	var src bdomain.Source
	if opt.features != "" {
		if src, err = loadFeatures(opt.features); err != nil {
			return fmt.Errorf("load features: %w", err)
		}
	} else {
		pgCfg := root.Prefix("SERVICE_PGSQL_")
		st, err := store.Open(ctx, store.Config{
			AppName: "wardtpr-resolve",
			PG: store.PGConfig{
				Enabled:  true,
				URL:      pgCfg.MustString("DBURL"),
				MaxConns: int32(pgCfg.MayInt("MAX_CONNS", 2)),
				Slow:     pgCfg.MayDuration("SLOW", 500*time.Millisecond),
				LogSQL:   pgCfg.MayBool("LOG_SQL", false),
			},
		}, store.WithLogger(*l))
		if err != nil {
			return fmt.Errorf("store open: %w", err)
		}
		defer func() {
			if err := st.Close(context.Background()); err != nil {
				l.Error().Err(err).Msg("failed to close store")
			}
		}()
		deps.PG = st.PG
		src = module.MustPortsOf[boundariesmod.Ports](boundariesmod.New(deps)).Source
	}

	lx, err := lexicon.Load()
	if err != nil {
		return fmt.Errorf("lexicon: %w", err)
	}
	rm := resolvemod.New(deps, lx, src)
	svc := module.MustPortsOf[resolvemod.Ports](rm).Service

	rep, err := svc.Report(ctx, opt.state, names)
	if err != nil {
		return err
	}
	if err := writeReport(out, rep, opt.pretty); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func readNames(path string) ([]string, error) {
	var r io.Reader = os.Stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var names []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		names = append(names, sc.Text())
	}
	return names, sc.Err()
}

func loadFeatures(path string) (bsvc.Static, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var fs []bdomain.Feature
	if err := json.Unmarshal(b, &fs); err != nil {
		return nil, err
	}
	return bsvc.Static(fs), nil
}

func writeReport(w io.Writer, rep *rsvc.Report, pretty bool) error {
	enc := json.NewEncoder(w)
	if pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(rep.DTO())
}
