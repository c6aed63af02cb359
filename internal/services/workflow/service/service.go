package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"wardtpr/internal/core/selection"
	"wardtpr/internal/core/tpr"
	"wardtpr/internal/core/workflow"
	perr "wardtpr/internal/platform/errors"
	"wardtpr/internal/platform/logger"
	bdomain "wardtpr/internal/services/boundaries/domain"
	rsvc "wardtpr/internal/services/resolve/service"
	"wardtpr/internal/services/workflow/domain"
)

// Service defines the service contract for workflow sessions
type Service interface{ domain.ServicePort }

// Config holds session tunables
type Config struct {
	Machine     workflow.Config
	MaxSessions int
	SessionTTL  time.Duration
}

// DefaultConfig returns the field defaults
func DefaultConfig() Config {
	return Config{Machine: workflow.DefaultConfig(), MaxSessions: 1000, SessionTTL: 2 * time.Hour}
}

// Svc runs selection sessions and turns completed selections into map tables
type Svc struct {
	Parser   *selection.Parser
	Resolver *rsvc.Resolver
	Source   bdomain.Source
	Sessions *Sessions

	cfg Config
}

// New creates a workflow service
func New(p *selection.Parser, res *rsvc.Resolver, src bdomain.Source, cfg Config) *Svc {
	switch {
	case p == nil:
		panic("workflow.Service requires a non nil Parser")
	case res == nil:
		panic("workflow.Service requires a non nil Resolver")
	case src == nil:
		panic("workflow.Service requires a non nil boundary Source")
	}
	return &Svc{
		Parser:   p,
		Resolver: res,
		Source:   src,
		Sessions: NewSessions(cfg.MaxSessions, cfg.SessionTTL),
		cfg:      cfg,
	}
}

// Create implements domain.ServicePort. Rows that break the count invariants are
// dropped and reported; a session needs at least one usable row.
func (s *Svc) Create(ctx context.Context, in domain.CreateInput) (domain.SessionOutput, error) {
	records, intake := tpr.DecodeRecords(in.Records)
	if len(records) == 0 {
		return domain.SessionOutput{}, perr.WithField(
			perr.InvalidRecordf("none of the %d records is usable", intake.Received), "records")
	}

	sess := &session{
		id:      uuid.NewString(),
		state:   in.State,
		records: records,
		intake:  intake,
		machine: workflow.New(s.Parser, s.cfg.Machine),
	}
	if err := s.Sessions.add(sess); err != nil {
		return domain.SessionOutput{}, err
	}

	logger.C(logger.WithSession(ctx, sess.id)).Info().
		Str("state", in.State).
		Int("accepted", intake.Accepted).
		Int("dropped", intake.Dropped).
		Msg("session opened")

	return domain.SessionOutput{
		TurnOutput: turnOutput(sess.id, sess.machine.Start()),
		State:      sess.state,
		Intake:     intake,
	}, nil
}

// Turn implements domain.ServicePort
func (s *Svc) Turn(ctx context.Context, id string, in domain.TurnInput) (domain.TurnOutput, error) {
	sess, err := s.Sessions.get(id)
	if err != nil {
		return domain.TurnOutput{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	resp := sess.machine.Handle(in.Utterance)
	logger.C(logger.WithSession(ctx, id)).Debug().
		Str("kind", string(resp.Kind)).
		Stringer("stage", resp.Stage).
		Int("deviations", sess.machine.Deviations()).
		Msg("turn")
	return turnOutput(id, resp), nil
}

// Result implements domain.ServicePort. It fails with a contract error until the
// selection is complete. An empty selection is a result, not an error.
func (s *Svc) Result(ctx context.Context, id string) (domain.ResultOutput, error) {
	sess, err := s.Sessions.get(id)
	if err != nil {
		return domain.ResultOutput{}, err
	}
	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.result != nil {
		return *sess.result, nil
	}
	sel, err := sess.machine.Selection()
	if err != nil {
		return domain.ResultOutput{}, err
	}
	out, err := s.compute(logger.WithSession(ctx, id), sess, sel)
	if err != nil {
		return domain.ResultOutput{}, err
	}
	sess.result = &out
	return out, nil
}

func (s *Svc) compute(ctx context.Context, sess *session, sel tpr.Selection) (domain.ResultOutput, error) {
	log := logger.C(ctx)
	res, err := tpr.Compute(sess.records, sel)
	if err != nil {
		return domain.ResultOutput{}, err
	}

	out := domain.ResultOutput{
		SessionID:  sess.id,
		State:      sess.state,
		Selection:  sel,
		Rows:       []domain.MapRow{},
		NoData:     res.NoData,
		Unresolved: []string{},
		Intake:     sess.intake,
	}
	if res.Empty() {
		out.Empty = true
		out.Message = res.EmptyErr().Error()
		log.Info().Interface("selection", sel).Msg("selection matched no tested wards")
		return out, nil
	}

	features, err := s.Source.ForState(ctx, sess.state)
	if err != nil {
		return domain.ResultOutput{}, err
	}
	names := make([]string, len(res.Wards))
	for i, w := range res.Wards {
		names[i] = w.WardNameRaw
	}
	rep, err := s.Resolver.ResolveAll(ctx, sess.state, names, features)
	if err != nil {
		return domain.ResultOutput{}, err
	}
	out.Rows = MapTable(res.Wards, rep)
	out.Unresolved = rep.Unresolved()

	log.Info().
		Int("wards", len(out.Rows)).
		Int("unresolved", len(out.Unresolved)).
		Int("no_data", len(out.NoData)).
		Msg("tpr computed")
	return out, nil
}

// Delete implements domain.ServicePort
func (s *Svc) Delete(_ context.Context, id string) error {
	if !s.Sessions.drop(id) {
		return perr.WithField(perr.NotFoundf("session %q not found", id), "id")
	}
	return nil
}

func turnOutput(id string, r workflow.Response) domain.TurnOutput {
	return domain.TurnOutput{
		SessionID:    id,
		ResponseText: r.Text,
		Stage:        r.Stage,
		IsTerminal:   r.Terminal,
		Kind:         string(r.Kind),
		Topic:        r.Topic,
		SkipOffered:  r.SkipOffered,
		Candidates:   r.Candidates,
	}
}
