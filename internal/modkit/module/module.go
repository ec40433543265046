// Package module defines the minimal contract for a modkit module
package module

import (
	"context"

	phttp "visitsdash/internal/platform/net/http"
)

// Module defines the minimal contract used by modkit
// keep this sibling to avoid import knots when a module also exports its own ports type
type Module interface {
	MountRoutes(r phttp.Router)
	Ports() any
	Name() string
}

// Runner is a port for background work that lives as long as ctx.
// Run returns nil on a clean shutdown
type Runner interface {
	Run(ctx context.Context) error
}
