// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"net/http"
	"time"

	"visitsdash/internal/core/version"
	modkit "visitsdash/internal/modkit"
	"visitsdash/internal/modkit/httpkit"
	"visitsdash/internal/modkit/module"
	str "visitsdash/internal/platform/strings"

	metahttp "visitsdash/internal/services/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps     modkit.Deps
	name     string
	prefix   string
	mws      []func(http.Handler) http.Handler
	register func(httpkit.Router)

	startedAt time.Time
}

// New constructs a meta module with the provided dependencies and options
func New(deps modkit.Deps, opts ...modkit.Option) *Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	m := &Module{
		deps:      deps,
		name:      b.Name,
		prefix:    b.Prefix,
		mws:       b.Mw,
		startedAt: time.Now(),
	}

	hd := metahttp.Deps{
		ServiceName:  version.Service,
		StartedAt:    m.startedAt,
		ReadyTimeout: deps.Cfg.MayDuration("META_READY_TIMEOUT", 2*time.Second),
		Loops:        module.Each[metahttp.Liveness],
	}
	// a nil *Client must not become a non-nil Pinger
	if deps.Upstream != nil {
		hd.Upstream = deps.Upstream
	}

	external := b.Register
	m.register = func(r httpkit.Router) {
		metahttp.Register(r, hd)
		external(r)
	}
	return m
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, m.register)
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return str.MustString(m.name, "meta") }

// Prefix returns the mount path
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
