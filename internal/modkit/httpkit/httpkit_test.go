package httpkit

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perr "wardtpr/internal/platform/errors"
	phttp "wardtpr/internal/platform/net/http"

	"github.com/go-chi/chi/v5"
)

type createIn struct {
	State string `json:"state" validate:"notblank"`
}

func newRouter() (*chi.Mux, Router) {
	m := chi.NewRouter()
	return m, phttp.AdaptChi(m)
}

func do(m http.Handler, method, path, body string) (*httptest.ResponseRecorder, Envelope) {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	m.ServeHTTP(rr, req)
	var env Envelope
	_ = json.Unmarshal(rr.Body.Bytes(), &env)
	return rr, env
}

func TestSugar_RoutesAndParams(t *testing.T) {
	m, r := newRouter()
	MountAPIV1(r, nil, func(api Router) {
		MountUnder(api, "/sessions", nil, func(s Router) {
			PostJSON(s, "/", func(_ *http.Request, in createIn) (any, error) {
				return Created(map[string]string{"state": in.State}), nil
			})
			Get(s, "/{id}/result", func(r *http.Request) (any, error) {
				if Param(r, "id") == "missing" {
					return nil, perr.NotFoundf("session not found")
				}
				return map[string]string{"id": Param(r, "id")}, nil
			})
			Delete(s, "/{id}", func(*http.Request) (any, error) { return NoContent(), nil })
		})
	})

	rr, env := do(m, http.MethodPost, "/api/v1/sessions/", `{"state":"Adamawa"}`)
	if rr.Code != http.StatusCreated || env.Data.(map[string]any)["state"] != "Adamawa" {
		t.Fatalf("create: code=%d env=%+v", rr.Code, env)
	}

	rr, env = do(m, http.MethodPost, "/api/v1/sessions/", `{"state":""}`)
	if rr.Code != http.StatusBadRequest || env.Field != "state" {
		t.Fatalf("validation: code=%d env=%+v", rr.Code, env)
	}

	rr, env = do(m, http.MethodGet, "/api/v1/sessions/s1/result", "")
	if rr.Code != http.StatusOK || env.Data.(map[string]any)["id"] != "s1" {
		t.Fatalf("get: code=%d env=%+v", rr.Code, env)
	}

	rr, env = do(m, http.MethodGet, "/api/v1/sessions/missing/result", "")
	if rr.Code != http.StatusNotFound || env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("not found: code=%d env=%+v", rr.Code, env)
	}

	if rr, _ = do(m, http.MethodDelete, "/api/v1/sessions/s1", ""); rr.Code != http.StatusNoContent {
		t.Fatalf("delete: code=%d", rr.Code)
	}
}

func TestMountUnder_AppliesMiddlewareToScopeOnly(t *testing.T) {
	m, r := newRouter()
	tag := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Scope", "resolve")
			next.ServeHTTP(w, r)
		})
	}
	MountUnder(r, "/resolve", []func(http.Handler) http.Handler{tag}, func(s Router) {
		Get(s, "/", func(*http.Request) (any, error) { return "in", nil })
	})
	Get(r, "/meta", func(*http.Request) (any, error) { return "out", nil })

	if rr, _ := do(m, http.MethodGet, "/resolve/", ""); rr.Header().Get("X-Scope") != "resolve" {
		t.Fatalf("scoped route missing middleware: %v", rr.Header())
	}
	if rr, _ := do(m, http.MethodGet, "/meta", ""); rr.Header().Get("X-Scope") != "" {
		t.Fatal("middleware leaked outside its scope")
	}
}

func TestBodyLimit(t *testing.T) {
	o := BodyLimit(64 << 20)
	if o.MaxBytes != 64<<20 || !o.DisallowUnknown {
		t.Fatalf("opts=%+v", o)
	}

	m, r := newRouter()
	PostJSON(r, "/small", func(_ *http.Request, in createIn) (any, error) { return in, nil }, BodyLimit(4))
	if rr, _ := do(m, http.MethodPost, "/small", `{"state":"Kano"}`); rr.Code != http.StatusBadRequest {
		t.Fatalf("code=%d", rr.Code)
	}
}
