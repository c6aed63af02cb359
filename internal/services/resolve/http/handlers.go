// Package http provides http transport for ward name resolution
package http

import (
	stdhttp "net/http"

	"wardtpr/internal/modkit/httpkit"
	"wardtpr/internal/services/resolve/domain"
	svc "wardtpr/internal/services/resolve/service"
)

// Register mounts resolve endpoints on the given router
func Register(r httpkit.Router, s svc.Service) {
	h := &handlers{svc: s}
	httpkit.PostJSON[domain.ResolveInput](r, "/", h.resolve)
}

type handlers struct{ svc svc.Service }

// @Summary Resolve raw ward names against a state's boundaries
// @Tags Resolve
// @Accept json
// @Produce json
// @Param payload body domain.ResolveInput true "Names"
// @Success 200 {object} domain.ReportDTO "ok"
// @Failure 404 {object} httpkit.Envelope "no boundaries for state"
// @Router /resolve [post]
func (h *handlers) resolve(r *stdhttp.Request, in domain.ResolveInput) (any, error) {
	return h.svc.Resolve(r.Context(), in)
}
