package http

import (
	"context"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"wardtpr/internal/core/selection"
	perr "wardtpr/internal/platform/errors"
	pnet "wardtpr/internal/platform/net"
	phttp "wardtpr/internal/platform/net/http"
	"wardtpr/internal/services/workflow/domain"

	"github.com/go-chi/chi/v5"
)

// stubSvc answers from fixed values and records the session id seen on the context
type stubSvc struct {
	ctxSession string
	gotTurn    domain.TurnInput
	resultErr  error
	deleteErr  error
}

func (s *stubSvc) Create(_ context.Context, in domain.CreateInput) (domain.SessionOutput, error) {
	return domain.SessionOutput{
		TurnOutput: domain.TurnOutput{SessionID: "s-1", Stage: selection.StageFacilityLevel, Kind: "prompt"},
		State:      in.State,
	}, nil
}

func (s *stubSvc) Turn(ctx context.Context, id string, in domain.TurnInput) (domain.TurnOutput, error) {
	s.ctxSession = pnet.SessionID(ctx)
	s.gotTurn = in
	return domain.TurnOutput{SessionID: id, Kind: "complete", IsTerminal: true}, nil
}

func (s *stubSvc) Result(_ context.Context, id string) (domain.ResultOutput, error) {
	if s.resultErr != nil {
		return domain.ResultOutput{}, s.resultErr
	}
	return domain.ResultOutput{SessionID: id, Empty: true, Message: "no data"}, nil
}

func (s *stubSvc) Delete(context.Context, string) error { return s.deleteErr }

func mount(s *stubSvc, maxBody int64) stdhttp.Handler {
	m := chi.NewRouter()
	Register(phttp.AdaptChi(m), s, maxBody)
	return m
}

func do(t *testing.T, h stdhttp.Handler, method, path, body string) (*httptest.ResponseRecorder, phttp.Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	var env phttp.Envelope
	if rr.Code != stdhttp.StatusNoContent {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("%s %s: %v (%s)", method, path, err, rr.Body.String())
		}
	}
	return rr, env
}

func TestCreate(t *testing.T) {
	h := mount(&stubSvc{}, 1<<20)

	rr, env := do(t, h, stdhttp.MethodPost, "/", `{"state":"Adamawa","records":[{"ward_name_raw":"Girei"}]}`)
	if rr.Code != stdhttp.StatusCreated || env.StatusCode != stdhttp.StatusCreated {
		t.Fatalf("create = %d %+v", rr.Code, env)
	}

	cases := []struct {
		name string
		body string
		code perr.ErrorCode
	}{
		{"blank state", `{"state":" ","records":[{}]}`, perr.ErrorCodeValidation},
		{"no records", `{"state":"Adamawa","records":[]}`, perr.ErrorCodeValidation},
		{"unknown field", `{"state":"Adamawa","records":[{}],"extra":1}`, perr.ErrorCodeJSON},
		{"not json", `state=Adamawa`, perr.ErrorCodeJSON},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr, env := do(t, h, stdhttp.MethodPost, "/", tc.body)
			if rr.Code != stdhttp.StatusBadRequest || env.Code != tc.code {
				t.Fatalf("status=%d env=%+v", rr.Code, env)
			}
		})
	}
}

func TestCreate_BodyCap(t *testing.T) {
	h := mount(&stubSvc{}, 32)
	rr, env := do(t, h, stdhttp.MethodPost, "/", `{"state":"Adamawa","records":[{"ward_name_raw":"Yola North"}]}`)
	if rr.Code != stdhttp.StatusBadRequest || !strings.Contains(env.Error, "exceeds 32 bytes") {
		t.Fatalf("status=%d env=%+v", rr.Code, env)
	}
}

func TestTurn_TagsSession(t *testing.T) {
	s := &stubSvc{}
	rr, env := do(t, mount(s, 1<<20), stdhttp.MethodPost, "/s-9/turns", `{"utterance":"primary"}`)
	if rr.Code != stdhttp.StatusOK {
		t.Fatalf("turn = %d %+v", rr.Code, env)
	}
	if s.ctxSession != "s-9" || s.gotTurn.Utterance != "primary" {
		t.Fatalf("session=%q turn=%+v", s.ctxSession, s.gotTurn)
	}
}

func TestResult_StatusFromCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"empty selection is a 200", nil, stdhttp.StatusOK},
		{"not complete", perr.Contractf("selection is not complete"), stdhttp.StatusConflict},
		{"unknown session", perr.NotFoundf("session %s", "s-2"), stdhttp.StatusNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr, env := do(t, mount(&stubSvc{resultErr: tc.err}, 1<<20), stdhttp.MethodGet, "/s-2/result", "")
			if rr.Code != tc.want || env.StatusCode != tc.want {
				t.Fatalf("status=%d env=%+v", rr.Code, env)
			}
		})
	}
}

func TestDelete(t *testing.T) {
	if rr, _ := do(t, mount(&stubSvc{}, 1<<20), stdhttp.MethodDelete, "/s-3", ""); rr.Code != stdhttp.StatusNoContent {
		t.Fatalf("delete = %d", rr.Code)
	}
	rr, env := do(t, mount(&stubSvc{deleteErr: perr.NotFoundf("session s-3")}, 1<<20), stdhttp.MethodDelete, "/s-3", "")
	if rr.Code != stdhttp.StatusNotFound || env.Code != perr.ErrorCodeNotFound {
		t.Fatalf("status=%d env=%+v", rr.Code, env)
	}
}
