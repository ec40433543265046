package modkit

import (
	"visitsdash/internal/modkit/module"
)

// Module is the common surface for modules that can mount routes and expose ports
// keep this tiny so modules stay decoupled
type Module = module.Module

// Runner is implemented by modules that own background work
type Runner = module.Runner
