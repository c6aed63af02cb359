// Package bind decodes and validates JSON request bodies for handlers
package bind

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	perr "wardtpr/internal/platform/errors"
	"wardtpr/internal/platform/logger"
	"wardtpr/internal/platform/validate"

	"github.com/go-playground/validator/v10"
)

// JSONOptions controls parsing
type JSONOptions struct {
	MaxBytes        int64 // 0 means no cap beyond any BodyLimit middleware
	DisallowUnknown bool
	AllowEmptyBody  bool
}

// DefaultJSONOptions caps bodies at 4MB and rejects unknown fields
func DefaultJSONOptions() JSONOptions {
	return JSONOptions{MaxBytes: 4 << 20, DisallowUnknown: true}
}

// ParseJSON decodes exactly one JSON value into T and validates it.
// Decode failures carry ErrorCodeJSON; rule failures carry
// ErrorCodeValidation with the offending field.
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var zero T
	o := DefaultJSONOptions()
	if len(opts) > 0 {
		o = opts[0]
	}
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.Get().Warn().Err(err).Msg("request body close")
		}
	}()

	body, empty := peek(r.Body)
	if empty {
		if o.AllowEmptyBody || bodyless(r.Method) {
			return zero, nil
		}
		return zero, perr.JSONErrf("empty body")
	}
	if o.MaxBytes > 0 {
		body = http.MaxBytesReader(nil, io.NopCloser(body), o.MaxBytes)
	}

	var dst T
	if err := decode(body, &dst, o.DisallowUnknown); err != nil {
		return zero, err
	}
	if err := check(dst); err != nil {
		return zero, err
	}
	return dst, nil
}

// peek reports whether rc is empty and returns a reader over its full content
func peek(rc io.Reader) (io.Reader, bool) {
	first := make([]byte, 1)
	n, _ := io.ReadFull(rc, first)
	if n == 0 {
		return nil, true
	}
	return io.MultiReader(bytes.NewReader(first), rc), false
}

func bodyless(method string) bool {
	switch method {
	case http.MethodGet, http.MethodDelete, http.MethodHead, http.MethodOptions:
		return true
	}
	return false
}

func decode(body io.Reader, dst any, strict bool) error {
	dec := json.NewDecoder(body)
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return perr.JSONErrf("body exceeds %d bytes", tooBig.Limit)
		}
		return perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return perr.JSONErrf("unexpected trailing data")
	}
	return nil
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var inv *validator.InvalidValidationError
	if errors.As(err, &inv) {
		// non-struct payloads have no rules to check
		return nil
	}
	field, _, msg := validate.FirstError(err)
	return perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}
