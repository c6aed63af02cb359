package module

import (
	"time"

	"wardtpr/internal/core/workflow"
	"wardtpr/internal/platform/config"
	wsvc "wardtpr/internal/services/workflow/service"
)

// Options controls sessions
type Options struct {
	Service    wsvc.Config
	SweepEvery time.Duration
	// MaxBody caps a session upload in bytes
	MaxBody int64
}

// FromConfig reads CORE_WORKFLOW_* relative to the API config
func FromConfig(cfg config.Conf) Options {
	c := cfg.Prefix("WORKFLOW_")
	d := wsvc.DefaultConfig()
	return Options{
		Service: wsvc.Config{
			Machine:     workflow.Config{SkipOfferAfter: c.MayInt("SKIP_OFFER_AFTER", d.Machine.SkipOfferAfter)},
			MaxSessions: c.MayInt("MAX_SESSIONS", d.MaxSessions),
			SessionTTL:  c.MayDuration("SESSION_TTL", d.SessionTTL),
		},
		SweepEvery: c.MayDuration("SWEEP_EVERY", time.Minute),
		MaxBody:    int64(c.MayInt("MAX_BODY_MB", 64)) << 20,
	}
}
