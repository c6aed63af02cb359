package module

import rsvc "wardtpr/internal/services/resolve/service"

// Ports is what other modules may take from resolve
type Ports struct {
	Resolver *rsvc.Resolver
	Service  *rsvc.Svc
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
