// Package service loads ward boundaries and caches them per state
package service

import (
	"context"
	"strings"
	"sync"

	"wardtpr/internal/core/normalize"
	"wardtpr/internal/modkit/repokit"
	perr "wardtpr/internal/platform/errors"
	"wardtpr/internal/platform/logger"
	"wardtpr/internal/services/boundaries/domain"
	"wardtpr/internal/services/boundaries/repo"

	"golang.org/x/sync/singleflight"
)

// Service defines the service contract for boundaries
type Service interface{ domain.ServicePort }

// Svc implements Service. Features are loaded once per state and never mutated;
// callers share the cached slices and must treat them as read only.
type Svc struct {
	Repo repo.Repo

	mu    sync.RWMutex
	cache map[string][]domain.Feature
	group singleflight.Group
}

// New creates a boundaries service
func New(db repokit.Queryer, binder repokit.Binder[repo.Repo]) *Svc {
	if binder == nil {
		panic("boundaries.Service requires a non nil Repo binder")
	}
	return &Svc{Repo: repokit.MustBind(binder, db), cache: map[string][]domain.Feature{}}
}

// stateKey folds case, width and spacing so "Adamawa " and "ADAMAWA" share a cache slot
func stateKey(state string) string { return normalize.Fold(state) }

// ForState returns the features of state, loading them on first use.
// Concurrent first calls for one state share a single query.
func (s *Svc) ForState(ctx context.Context, state string) ([]domain.Feature, error) {
	key := stateKey(state)
	if key == "" {
		return nil, perr.WithField(perr.InvalidArgf("state is required"), "state")
	}

	s.mu.RLock()
	fs, ok := s.cache[key]
	s.mu.RUnlock()
	if ok {
		return fs, nil
	}

	v, err, _ := s.group.Do(key, func() (any, error) {
		rows, err := s.Repo.ByState(ctx, strings.TrimSpace(state))
		if err != nil {
			return nil, err
		}
		out := make([]domain.Feature, 0, len(rows))
		for _, r := range rows {
			out = append(out, domain.Feature{
				CanonicalWardName: r.WardName,
				LGA:               r.LGAName,
				State:             r.State,
				WardCode:          r.WardCode,
				Geometry:          r.Geometry,
			})
		}
		// an unknown state is not cached so a later load can fill it
		if len(out) > 0 {
			s.mu.Lock()
			s.cache[key] = out
			s.mu.Unlock()
		}
		logger.C(ctx).Debug().Str("state", state).Int("wards", len(out)).Msg("boundaries loaded")
		return out, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]domain.Feature), nil
}

// States lists the states present in the boundary table
func (s *Svc) States(ctx context.Context) ([]string, error) {
	return s.Repo.States(ctx)
}

// Wards lists ward names of a state without geometry
func (s *Svc) Wards(ctx context.Context, in domain.StateInput) ([]domain.WardName, error) {
	fs, err := s.ForState(ctx, in.State)
	if err != nil {
		return nil, err
	}
	if len(fs) == 0 {
		return nil, perr.NotFoundf("no boundaries for state %q", in.State)
	}
	out := make([]domain.WardName, 0, len(fs))
	for _, f := range fs {
		out = append(out, domain.WardName{Name: f.CanonicalWardName, LGA: f.LGA, WardCode: f.WardCode})
	}
	return out, nil
}

// Static serves a fixed feature set, for tools and tests without a database
type Static []domain.Feature

// ForState filters the set by folded state name
func (st Static) ForState(_ context.Context, state string) ([]domain.Feature, error) {
	key := stateKey(state)
	var out []domain.Feature
	for _, f := range st {
		if stateKey(f.State) == key {
			out = append(out, f)
		}
	}
	return out, nil
}
