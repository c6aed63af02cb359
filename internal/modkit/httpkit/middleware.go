package httpkit

import (
	"compress/flate"
	"net/http"
	"time"

	"wardtpr/internal/platform/config"
	pnet "wardtpr/internal/platform/net"
	"wardtpr/internal/platform/net/middleware"
)

// StackOptions tunes CommonStack
type StackOptions struct {
	// CORSOrigins lists allowed browser origins; empty allows any
	CORSOrigins []string
	// Slow marks slower requests at warn in the access log
	Slow time.Duration
	// Timeout bounds each request
	Timeout time.Duration
}

// StackFromConfig reads API_CORS_ORIGINS, API_SLOW and API_TIMEOUT from c
func StackFromConfig(c config.Conf) StackOptions {
	return StackOptions{
		CORSOrigins: c.MayCSV("API_CORS_ORIGINS", nil),
		Slow:        c.MayDuration("API_SLOW", 500*time.Millisecond),
		Timeout:     c.MayDuration("API_TIMEOUT", 30*time.Second),
	}
}

// CommonStack is the middleware every versioned route runs behind
func CommonStack(o StackOptions) []func(http.Handler) http.Handler {
	if o.Timeout <= 0 {
		o.Timeout = 30 * time.Second
	}
	return []func(http.Handler) http.Handler{
		middleware.RequestID(),
		middleware.RealIP(),
		pnet.LogContext,
		middleware.RecoverJSON,
		middleware.NoCache(),
		middleware.AccessLogZerolog(middleware.AccessLogOptions{Slow: o.Slow}),
		middleware.CORS(middleware.CORSOptions{AllowedOrigins: o.CORSOrigins}),
		middleware.Compress(flate.BestSpeed),
		middleware.Heartbeat("/health"),
		middleware.RedirectSlashes(),
		middleware.StripSlashes(),
		middleware.Timeout(o.Timeout),
	}
}
