package pg

import (
	"context"
	"strings"
	"time"

	"wardtpr/internal/platform/logger"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
)

// Tracer implements pgx.QueryTracer. Failed and slow statements log at warn;
// with all set every other statement logs at info.
type Tracer struct {
	log  logger.Logger
	slow time.Duration
	all  bool
	now  func() time.Time
}

// NewTracer returns a tracer writing to log under component=pg
func NewTracer(log logger.Logger, slow time.Duration, all bool) *Tracer {
	return &Tracer{
		log:  log.With().Str("component", "pg").Logger(),
		slow: slow,
		all:  all,
		now:  time.Now,
	}
}

type startKey struct{}

type started struct {
	sql  string
	args int
	at   time.Time
}

// TraceQueryStart records the statement and start time on ctx
func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, startKey{}, started{sql: d.SQL, args: len(d.Args), at: t.now()})
}

// TraceQueryEnd logs the statement if it failed, ran slow, or all is set
func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, d pgx.TraceQueryEndData) {
	st, ok := ctx.Value(startKey{}).(started)
	if !ok {
		return
	}
	took := t.now().Sub(st.at)
	slow := t.slow > 0 && took >= t.slow

	var ev *zerolog.Event
	switch {
	case d.Err != nil, slow:
		ev = t.log.Warn()
	case t.all:
		ev = t.log.Info()
	default:
		return
	}
	ev.Dur("took", took).
		Bool("slow", slow).
		Str("sql", compact(st.sql)).
		Int("args", st.args).
		Int64("rows", d.CommandTag.RowsAffected()).
		Err(d.Err).
		Msg("pg query")
}

// compact folds whitespace runs so multi-line SQL logs on one line
func compact(sql string) string { return strings.Join(strings.Fields(sql), " ") }
