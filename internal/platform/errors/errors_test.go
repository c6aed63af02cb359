package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeInvalidRecord, http.StatusBadRequest},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeContract, http.StatusConflict},
		{ErrorCodeEmptySelection, http.StatusOK},
		{ErrorCodeTooManyRequests, http.StatusTooManyRequests},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError},
	}
	for _, c := range cases {
		if got := statusFor(c.code); got != c.want {
			t.Fatalf("statusFor(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestError_RenderAndUnwrap(t *testing.T) {
	var nilErr *Error
	if nilErr.Error() != "<nil>" {
		t.Fatalf("nil render = %q", nilErr.Error())
	}

	if got := Newf(ErrorCodeJSON, "bad json at %d", 12).Error(); got != "bad json at 12" {
		t.Fatalf("Newf = %q", got)
	}

	cause := stderrs.New("connection reset")
	wrapped := Wrap(cause, ErrorCodeDB, "boundaries for Kano")
	if wrapped.Error() != "boundaries for Kano: connection reset" {
		t.Fatalf("Wrap render = %q", wrapped.Error())
	}
	if !stderrs.Is(wrapped, cause) || stderrs.Unwrap(wrapped) != cause {
		t.Fatal("cause not reachable")
	}

	// codes survive foreign wrapping
	outer := fmt.Errorf("resolve: %w", wrapped)
	if CodeOf(outer) != ErrorCodeDB || HTTPStatus(outer) != http.StatusInternalServerError {
		t.Fatalf("CodeOf(outer) = %v", CodeOf(outer))
	}
	if CodeOf(cause) != ErrorCodeUnknown {
		t.Fatal("foreign errors are Unknown")
	}
}

func TestMutatorsCopyOnWrite(t *testing.T) {
	base := InvalidRecordf("no usable rows")
	withField := WithField(base, "records")
	withOp := WithOp(withField, "workflow.Create")

	b, _ := As(base)
	if b.Field() != "" || base.Error() != "no usable rows" {
		t.Fatalf("base mutated: field=%q msg=%q", b.Field(), base.Error())
	}
	e, ok := As(withOp)
	if !ok || e.Field() != "records" || e.Code() != ErrorCodeInvalidRecord {
		t.Fatalf("mutated = %+v", e)
	}
	if got := withOp.Error(); got != "workflow.Create: no usable rows" {
		t.Fatalf("op render = %q", got)
	}
	// the wire message stays free of the op label
	if w := WireFrom(withOp); w.Message != "no usable rows" || w.Field != "records" {
		t.Fatalf("wire = %+v", w)
	}

	foreign := stderrs.New("plain")
	if WithField(foreign, "x") != foreign || WithOp(foreign, "y") != foreign {
		t.Fatal("foreign errors must pass through")
	}
}

func TestWireFrom(t *testing.T) {
	if w := WireFrom(nil); w != (Wire{}) {
		t.Fatalf("nil wire = %+v", w)
	}
	w := WireFrom(WithField(NotFoundf("session %s", "abc"), "id"))
	if w.Code != ErrorCodeNotFound || w.Message != "session abc" || w.Field != "id" {
		t.Fatalf("wire = %+v", w)
	}
	w = WireFrom(stderrs.New("boom"))
	if w.Code != ErrorCodeUnknown || w.Message != "boom" {
		t.Fatalf("foreign wire = %+v", w)
	}
}

func TestSugarCodes(t *testing.T) {
	cases := map[ErrorCode]error{
		ErrorCodeNotFound:        NotFoundf("x"),
		ErrorCodeInvalidArgument: InvalidArgf("x"),
		ErrorCodeJSON:            JSONErrf("x"),
		ErrorCodePanic:           PanicErrf("x"),
		ErrorCodeInvalidRecord:   InvalidRecordf("x"),
		ErrorCodeContract:        Contractf("x"),
	}
	for want, err := range cases {
		if !IsCode(err, want) {
			t.Fatalf("code = %v, want %v", CodeOf(err), want)
		}
	}
}
