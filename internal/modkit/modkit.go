package modkit

import "wardtpr/internal/modkit/module"

// Module is the surface every API module implements
type Module = module.Module
