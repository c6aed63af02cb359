// Package http provides http transport for TPR workflow sessions
package http

import (
	stdhttp "net/http"

	"wardtpr/internal/modkit/httpkit"
	pnet "wardtpr/internal/platform/net"
	"wardtpr/internal/services/workflow/domain"
	svc "wardtpr/internal/services/workflow/service"
)

// Register mounts session endpoints on the given router; maxBody caps the upload
func Register(r httpkit.Router, s svc.Service, maxBody int64) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.CreateInput](r, "/", h.create, httpkit.BodyLimit(maxBody))
	httpkit.PostJSON[domain.TurnInput](r, "/{id}/turns", h.turn)
	httpkit.Get(r, "/{id}/result", h.result)
	httpkit.Delete(r, "/{id}", h.delete)
}

type handlers struct{ svc svc.Service }

// @Summary Open a selection session over uploaded facility rows
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body domain.CreateInput true "State and facility rows"
// @Success 201 {object} domain.SessionOutput "created"
// @Failure 400 {object} httpkit.Envelope "no usable rows"
// @Failure 429 {object} httpkit.Envelope "session limit reached"
// @Router /sessions [post]
func (h *handlers) create(r *stdhttp.Request, in domain.CreateInput) (any, error) {
	out, err := h.svc.Create(r.Context(), in)
	if err != nil {
		return nil, err
	}
	return httpkit.Created(out), nil
}

// @Summary Send one message to a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session id"
// @Param payload body domain.TurnInput true "Utterance"
// @Success 200 {object} domain.TurnOutput "ok"
// @Failure 404 {object} httpkit.Envelope "unknown session"
// @Router /sessions/{id}/turns [post]
func (h *handlers) turn(r *stdhttp.Request, in domain.TurnInput) (any, error) {
	id := httpkit.Param(r, "id")
	return h.svc.Turn(pnet.WithSession(r.Context(), id), id, in)
}

// @Summary Compute the TPR map table of a completed selection
// @Tags Sessions
// @Produce json
// @Param id path string true "Session id"
// @Success 200 {object} domain.ResultOutput "ok"
// @Failure 404 {object} httpkit.Envelope "unknown session"
// @Failure 409 {object} httpkit.Envelope "selection not complete"
// @Router /sessions/{id}/result [get]
func (h *handlers) result(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	return h.svc.Result(pnet.WithSession(r.Context(), id), id)
}

// @Summary Close a session
// @Tags Sessions
// @Param id path string true "Session id"
// @Success 204 "deleted"
// @Failure 404 {object} httpkit.Envelope "unknown session"
// @Router /sessions/{id} [delete]
func (h *handlers) delete(r *stdhttp.Request) (any, error) {
	id := httpkit.Param(r, "id")
	if err := h.svc.Delete(pnet.WithSession(r.Context(), id), id); err != nil {
		return nil, err
	}
	return httpkit.NoContent(), nil
}
