// Package modkit provides module wiring and core deps
package modkit

import (
	"wardtpr/internal/modkit/repokit"
	"wardtpr/internal/platform/config"
	"wardtpr/internal/platform/logger"
)

// Deps holds core dependencies passed to modules; PG is nil when no database is configured
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
}
