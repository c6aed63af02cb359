package module

import "wardtpr/internal/services/boundaries/domain"

// Ports is what other modules may take from boundaries
type Ports struct {
	Source domain.Source
}

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }
