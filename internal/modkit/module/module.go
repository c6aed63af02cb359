// Package module defines the minimal contract for a modkit module
package module

import (
	phttp "wardtpr/internal/platform/net/http"
)

// Module is what api.Mount composes; Ports exposes the module's cross wiring bundle
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
	Prefix() string
}
