package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	perr "wardtpr/internal/platform/errors"
	pnet "wardtpr/internal/platform/net"
)

func serve(t *testing.T, resp Response) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(pnet.WithRequest(req.Context(), "req-7"))
	rr := httptest.NewRecorder()
	Handle(func(*http.Request) Response { return resp })(rr, req)
	if rr.Code == http.StatusNoContent {
		return rr, Envelope{}
	}
	return rr, decodeEnv(t, rr)
}

func TestResponse_Success(t *testing.T) {
	rr, env := serve(t, OK(map[string]int{"rows": 3}))
	if rr.Code != http.StatusOK || env.StatusCode != 200 || env.Status != "OK" || env.RequestID != "req-7" {
		t.Fatalf("code=%d env=%+v", rr.Code, env)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Fatalf("content-type=%q", ct)
	}

	rr, env = serve(t, Created("s1"))
	if rr.Code != http.StatusCreated || env.Data != "s1" {
		t.Fatalf("created: code=%d env=%+v", rr.Code, env)
	}

	rr, _ = serve(t, NoContent())
	if rr.Code != http.StatusNoContent || rr.Body.Len() != 0 {
		t.Fatalf("no content: code=%d body=%q", rr.Code, rr.Body.String())
	}

	rr, _ = serve(t, Response{Body: "zero status"})
	if rr.Code != http.StatusOK {
		t.Fatalf("zero status: code=%d", rr.Code)
	}
}

func TestResponse_Errors(t *testing.T) {
	rr, env := serve(t, Error(perr.WithField(perr.InvalidRecordf("no usable rows"), "records")))
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", rr.Code)
	}
	if env.Code != perr.ErrorCodeInvalidRecord || env.Error != "no usable rows" || env.Field != "records" || env.Data != nil {
		t.Fatalf("env=%+v", env)
	}

	rr, env = serve(t, Response{Status: http.StatusCreated, Body: perr.NotFoundf("session gone")})
	if rr.Code != http.StatusNotFound || env.StatusCode != http.StatusNotFound {
		t.Fatalf("error status must win: code=%d env=%+v", rr.Code, env)
	}

	rr, env = serve(t, Error(errors.New("boom")))
	if rr.Code != http.StatusInternalServerError || env.Code != perr.ErrorCodeUnknown {
		t.Fatalf("foreign: code=%d env=%+v", rr.Code, env)
	}
}

func TestResponse_Headers(t *testing.T) {
	rr, _ := serve(t, Response{Status: http.StatusOK, Body: "x", Header: http.Header{"Retry-After": {"5"}}})
	if rr.Header().Get("Retry-After") != "5" {
		t.Fatalf("headers=%v", rr.Header())
	}
}
