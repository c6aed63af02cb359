package module

import wsvc "wardtpr/internal/services/workflow/service"

// Ports is what other modules may take from workflow
type Ports struct {
	Service  *wsvc.Svc
	Sessions *wsvc.Sessions
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
