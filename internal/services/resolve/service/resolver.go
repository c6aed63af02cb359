// Package service matches raw ward names to canonical boundary names
package service

import (
	"context"
	"runtime"
	"strings"

	"wardtpr/internal/core/cascade"
	"wardtpr/internal/core/lexicon"
	"wardtpr/internal/core/normalize"
	"wardtpr/internal/platform/logger"
	bdomain "wardtpr/internal/services/boundaries/domain"
	"wardtpr/internal/services/resolve/domain"

	"golang.org/x/sync/errgroup"
)

// Config tunes the resolver
type Config struct {
	// Workers bounds parallel lookups; 0 means GOMAXPROCS
	Workers int
	Cascade cascade.Options
}

// Resolver runs the cascade for many raw names. Safe for concurrent use.
type Resolver struct {
	cascade *cascade.Cascade
	workers int
}

// NewResolver validates cfg and builds a resolver
func NewResolver(cfg Config, lx *lexicon.Lexicon) (*Resolver, error) {
	if err := cfg.Cascade.Validate(); err != nil {
		return nil, err
	}
	w := cfg.Workers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	return &Resolver{cascade: cascade.New(cfg.Cascade, lx), workers: w}, nil
}

// Options returns the effective cascade thresholds
func (r *Resolver) Options() cascade.Options { return r.cascade.Options() }

// ResolveAll matches each distinct raw name against the features of state.
// An empty state uses every feature. Features are only read.
// The report has exactly one entry per distinct trimmed, non blank raw name.
func (r *Resolver) ResolveAll(ctx context.Context, state string, rawNames []string, features []bdomain.Feature) (*Report, error) {
	names := distinct(rawNames)
	pool := r.cascade.NewPool(candidates(state, features))

	results := make([]domain.Result, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, raw := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			_, hint, _ := normalize.ExtractParenthetical(raw)
			m, ok := r.cascade.ResolveIn(raw, pool, cascade.Context{LGAHint: hint})
			results[i] = resultOf(raw, m, ok)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rep := newReport(state, results)
	logger.C(ctx).Info().
		Str("state", state).
		Int("names", rep.Len()).
		Int("candidates", pool.Len()).
		Int("unresolved", len(rep.Unresolved())).
		Msg("ward names resolved")
	return rep, nil
}

func distinct(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func candidates(state string, features []bdomain.Feature) []cascade.Candidate {
	want := normalize.Fold(state)
	out := make([]cascade.Candidate, 0, len(features))
	for _, f := range features {
		if want != "" && normalize.Fold(f.State) != want {
			continue
		}
		out = append(out, cascade.Candidate{Name: f.CanonicalWardName, LGA: f.LGA})
	}
	return out
}
