package store

import "time"

// Config lists the backends Open should bring up
type Config struct {
	// AppName is reported to postgres as application_name
	AppName string

	PG PGConfig
}

// PGConfig configures the postgres backend
type PGConfig struct {
	Enabled  bool
	URL      string
	MaxConns int32
	// Slow statements log at warn; 0 disables
	Slow time.Duration
	// LogSQL logs every statement
	LogSQL bool

	ConnectRetries int
	PingTimeout    time.Duration
}
