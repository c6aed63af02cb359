package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"wardtpr/internal/core/tpr"
	"wardtpr/internal/core/workflow"
	perr "wardtpr/internal/platform/errors"
	"wardtpr/internal/platform/logger"
	"wardtpr/internal/services/workflow/domain"
)

// session is one analyst conversation. mu serializes its turns.
type session struct {
	mu sync.Mutex

	id      string
	state   string
	records []tpr.RawRecord
	intake  tpr.IntakeSummary
	machine *workflow.Machine
	result  *domain.ResultOutput // set once the selection completes and is computed

	touched atomic.Int64 // unix nanos of the last access
}

func (s *session) touch(now time.Time) { s.touched.Store(now.UnixNano()) }

// Sessions is the in memory session table. Sessions are independent; the table
// lock is held only to find, add or drop one.
type Sessions struct {
	mu    sync.RWMutex
	byID  map[string]*session
	max   int
	ttl   time.Duration
	clock func() time.Time
}

// NewSessions returns a table capped at max live sessions (0 = unbounded) whose
// sessions expire after ttl without access (0 = never)
func NewSessions(max int, ttl time.Duration) *Sessions {
	return &Sessions{byID: map[string]*session{}, max: max, ttl: ttl, clock: time.Now}
}

// Len returns the number of live sessions
func (t *Sessions) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.byID)
}

func (t *Sessions) add(s *session) error {
	now := t.clock()
	s.touch(now)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.max > 0 && len(t.byID) >= t.max {
		t.sweepLocked(now)
		if len(t.byID) >= t.max {
			return perr.Newf(perr.ErrorCodeTooManyRequests, "session limit of %d reached", t.max)
		}
	}
	t.byID[s.id] = s
	return nil
}

func (t *Sessions) get(id string) (*session, error) {
	t.mu.RLock()
	s, ok := t.byID[id]
	t.mu.RUnlock()
	if !ok {
		return nil, perr.WithField(perr.NotFoundf("session %q not found", id), "id")
	}
	now := t.clock()
	if t.expired(s, now) {
		t.drop(id)
		return nil, perr.WithField(perr.NotFoundf("session %q expired", id), "id")
	}
	s.touch(now)
	return s, nil
}

func (t *Sessions) drop(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, ok := t.byID[id]
	delete(t.byID, id)
	return ok
}

func (t *Sessions) expired(s *session, now time.Time) bool {
	return t.ttl > 0 && now.Sub(time.Unix(0, s.touched.Load())) > t.ttl
}

// Sweep drops expired sessions and returns how many went
func (t *Sessions) Sweep() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sweepLocked(t.clock())
}

func (t *Sessions) sweepLocked(now time.Time) int {
	n := 0
	for id, s := range t.byID {
		if t.expired(s, now) {
			delete(t.byID, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done
func (t *Sessions) Run(ctx context.Context, every time.Duration) {
	if t.ttl <= 0 || every <= 0 {
		return
	}
	log := logger.Named("sessions")
	tick := time.NewTicker(every)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			if n := t.Sweep(); n > 0 {
				log.Debug().Int("expired", n).Int("live", t.Len()).Msg("sessions swept")
			}
		}
	}
}
