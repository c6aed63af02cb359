// Package http serves the /meta probes and build information
package http

import (
	"context"
	"net/http"
	"time"

	"wardtpr/internal/core/cascade"
	"wardtpr/internal/core/version"
	"wardtpr/internal/modkit/httpkit"
	perr "wardtpr/internal/platform/errors"
)

// Pinger reports whether a dependency answers
type Pinger interface {
	Ping(context.Context) error
}

// Deps are what the meta routes report on
type Deps struct {
	Started time.Time
	// PG is nil when the process runs without postgres
	PG             Pinger
	Thresholds     cascade.Options
	LexiconVersion int
	// Now defaults to time.Now
	Now func() time.Time
}

// Register mounts the meta routes on r
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	m := meta{d}
	httpkit.Get(r, "/health", m.health)
	httpkit.Get(r, "/ready", m.ready)
	httpkit.Get(r, "/version", m.version)
	httpkit.Get(r, "/service", m.service)
	httpkit.Get(r, "/resolver", m.resolver)
}

type meta struct{ Deps }

// Health is the liveness payload
type Health struct {
	OK      bool      `json:"ok"`
	Service string    `json:"service"`
	Now     time.Time `json:"now"`
}

// Check is one dependency probe
type Check struct {
	Name   string `json:"name"`
	Status string `json:"status"` // ok, fail or skipped
	Error  string `json:"error,omitempty"`
}

// Readiness lists dependency probes
type Readiness struct {
	Ready  bool    `json:"ready"`
	Checks []Check `json:"checks"`
}

// Service reports process uptime
type Service struct {
	Name          string    `json:"name"`
	Started       time.Time `json:"started"`
	UptimeSeconds int64     `json:"uptime_seconds"`
}

// Resolver reports the thresholds name resolution runs with
type Resolver struct {
	LexiconVersion  int               `json:"lexicon_version"`
	LGAHintMin      float64           `json:"lga_hint_min"`
	AdminMin        float64           `json:"admin_min"`
	PhoneticMin     float64           `json:"phonetic_min"`
	AbbrevMin       float64           `json:"abbrev_min"`
	SubstringMinLen int               `json:"substring_min_len"`
	JaccardMin      float64           `json:"jaccard_min"`
	Build           version.BuildInfo `json:"build"`
}

func (m meta) health(*http.Request) (any, error) {
	return Health{OK: true, Service: version.Service, Now: m.Now().UTC()}, nil
}

// ready answers 503 with the checks when any dependency fails
func (m meta) ready(r *http.Request) (any, error) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	pg := Check{Name: "pg", Status: "skipped"}
	if m.PG != nil {
		pg.Status = "ok"
		if err := m.PG.Ping(ctx); err != nil {
			pg.Status, pg.Error = "fail", err.Error()
		}
	}
	out := Readiness{Ready: pg.Status != "fail", Checks: []Check{pg}}
	if !out.Ready {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

func (m meta) version(*http.Request) (any, error) { return version.Info(), nil }

func (m meta) service(*http.Request) (any, error) {
	if m.Started.IsZero() {
		return nil, perr.Newf(perr.ErrorCodeUnavailable, "service start time unknown")
	}
	return Service{
		Name:          version.Service,
		Started:       m.Started.UTC(),
		UptimeSeconds: int64(m.Now().Sub(m.Started) / time.Second),
	}, nil
}

func (m meta) resolver(*http.Request) (any, error) {
	t := m.Thresholds
	return Resolver{
		LexiconVersion:  m.LexiconVersion,
		LGAHintMin:      t.LGAHintMin,
		AdminMin:        t.AdminMin,
		PhoneticMin:     t.PhoneticMin,
		AbbrevMin:       t.AbbrevMin,
		SubstringMinLen: t.SubstringMinLen,
		JaccardMin:      t.JaccardMin,
		Build:           version.Info(),
	}, nil
}
