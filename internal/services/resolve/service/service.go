package service

import (
	"context"

	perr "wardtpr/internal/platform/errors"
	bdomain "wardtpr/internal/services/boundaries/domain"
	"wardtpr/internal/services/resolve/domain"
)

// Service defines the service contract for resolve
type Service interface{ domain.ServicePort }

// Svc loads a state's boundaries and resolves names against them
type Svc struct {
	Resolver *Resolver
	Source   bdomain.Source
}

// New creates a resolve service
func New(res *Resolver, src bdomain.Source) *Svc {
	if res == nil {
		panic("resolve.Service requires a non nil Resolver")
	}
	if src == nil {
		panic("resolve.Service requires a non nil boundary Source")
	}
	return &Svc{Resolver: res, Source: src}
}

// Report resolves names for state and returns the full report
func (s *Svc) Report(ctx context.Context, state string, rawNames []string) (*Report, error) {
	features, err := s.Source.ForState(ctx, state)
	if err != nil {
		return nil, err
	}
	if len(features) == 0 {
		return nil, perr.WithField(perr.NotFoundf("no boundaries for state %q", state), "state")
	}
	return s.Resolver.ResolveAll(ctx, state, rawNames, features)
}

// Resolve implements domain.ServicePort
func (s *Svc) Resolve(ctx context.Context, in domain.ResolveInput) (domain.ReportDTO, error) {
	rep, err := s.Report(ctx, in.State, in.RawNames)
	if err != nil {
		return domain.ReportDTO{}, err
	}
	return rep.DTO(), nil
}
