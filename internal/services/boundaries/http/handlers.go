// Package http provides http transport for boundaries
package http

import (
	stdhttp "net/http"

	"wardtpr/internal/modkit/httpkit"
	"wardtpr/internal/services/boundaries/domain"
	svc "wardtpr/internal/services/boundaries/service"
)

// Register mounts boundary endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.Get(r, "/states", h.states)
	httpkit.Get(r, "/{state}/wards", h.wards)
}

type handlers struct{ svc svc.Service }

// @Summary States with boundary data
// @Tags Boundaries
// @Produce json
// @Success 200 {array} string "ok"
// @Router /boundaries/states [get]
func (h *handlers) states(r *stdhttp.Request) (any, error) {
	return h.svc.States(r.Context())
}

// @Summary Canonical ward names of a state
// @Tags Boundaries
// @Produce json
// @Param state path string true "State name"
// @Success 200 {array} domain.WardName "ok"
// @Failure 404 {object} httpkit.Envelope "unknown state"
// @Router /boundaries/{state}/wards [get]
func (h *handlers) wards(r *stdhttp.Request) (any, error) {
	return h.svc.Wards(r.Context(), domain.StateInput{State: httpkit.Param(r, "state")})
}
