package middleware

import (
	"net/http"
	"runtime/debug"

	perr "wardtpr/internal/platform/errors"
	"wardtpr/internal/platform/logger"
	phttp "wardtpr/internal/platform/net/http"
)

// RecoverJSON turns a handler panic into the standard 500 envelope and logs
// the stack. http.ErrAbortHandler is re-raised so net/http can abort the
// connection.
func RecoverJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}
			logger.C(r.Context()).Error().
				Interface("panic", v).
				Bytes("stack", debug.Stack()).
				Str("path", r.URL.Path).
				Msg("handler panic")

			fail := perr.PanicErrf("internal error")
			phttp.Handle(func(*http.Request) phttp.Response { return phttp.Error(fail) }).ServeHTTP(w, r)
		}()
		next.ServeHTTP(w, r)
	})
}
