// Package module wires the dashboard controller, its reference data loader
// and both transports into one module
package module

import (
	"context"
	"errors"
	"net/http"

	"visitsdash/internal/modkit"
	"visitsdash/internal/modkit/httpkit"
	"visitsdash/internal/platform/logger"
	str "visitsdash/internal/platform/strings"
	"visitsdash/internal/services/dashboard/domain"
	dashhttp "visitsdash/internal/services/dashboard/http"
	"visitsdash/internal/services/dashboard/refdata"
	"visitsdash/internal/services/dashboard/service"

	"golang.org/x/sync/errgroup"
)

// Ports holds the ports exposed by the dashboard module
type Ports struct {
	Runner     modkit.Runner
	Controller *service.Controller
}

// Running reports whether the controller loop is up; meta readiness reads it
func (p Ports) Running() bool { return p.Controller != nil && p.Controller.Running() }

// Module defines the dashboard module
type Module struct {
	name   string
	prefix string
	mws    []func(http.Handler) http.Handler

	src   domain.Source
	ctl   *service.Controller
	web   dashhttp.Deps
	ports Ports
}

// New constructs the dashboard module. Options fill in from deps.Cfg where zero
func New(deps modkit.Deps, overrides Options, opts ...modkit.Option) *Module {
	o := FromConfig(deps.Cfg)
	if overrides.PerPage != 0 {
		o.PerPage = overrides.PerPage
	}
	if overrides.FetchTimeout != 0 {
		o.FetchTimeout = overrides.FetchTimeout
	}
	if overrides.WaitTimeout != 0 {
		o.WaitTimeout = overrides.WaitTimeout
	}
	if overrides.Locale != "" {
		o.Locale = overrides.Locale
	}
	// FenceResponses stays as configured; a zero bool cannot express an override

	var src domain.Source
	switch {
	case overrides.Source != nil:
		src = overrides.Source
	case deps.Upstream != nil:
		src = deps.Upstream
	default:
		panic("dashboard module requires an upstream visits source")
	}

	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("dashboard"),
		modkit.WithPrefix("/dashboard"),
	}, opts...)...)

	ctl := service.New(src, service.Options{
		PerPage:        o.PerPage,
		FenceResponses: o.FenceResponses,
		FetchTimeout:   o.FetchTimeout,
	})

	m := &Module{
		name:   b.Name,
		prefix: b.Prefix,
		mws:    b.Mw,
		src:    src,
		ctl:    ctl,
		web: dashhttp.Deps{
			Controller:  ctl,
			WaitTimeout: o.WaitTimeout,
			Locale:      o.Locale,
		},
	}
	m.ports = Ports{Runner: m, Controller: ctl}
	return m
}

// Run owns the controller loop. Once it is up the initial fetch is issued and
// the reference lists are loaded. Returns nil when ctx is cancelled
func (m *Module) Run(ctx context.Context) error {
	log := logger.Named("dashboard")
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		err := m.ctl.Run(gctx)
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil
		}
		return err
	})
	g.Go(func() error {
		if _, err := m.ctl.Mount(gctx); err != nil {
			return quiet(gctx, err)
		}
		if err := refdata.LoadInto(gctx, m.src, m.ctl); err != nil {
			return quiet(gctx, err)
		}
		log.Info().Msg("dashboard mounted")
		return nil
	})
	return g.Wait()
}

// quiet drops errors caused by shutdown
func quiet(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// MountRoutes mounts the JSON view API under the module prefix
func (m *Module) MountRoutes(r httpkit.Router) {
	httpkit.MountUnder(r, m.Prefix(), m.mws, func(sub httpkit.Router) {
		dashhttp.RegisterAPI(sub, m.web)
	})
}

// MountPage mounts the server rendered page and its form posts at the root
func (m *Module) MountPage(r httpkit.Router, mw []func(http.Handler) http.Handler) {
	httpkit.MountGroup(r, mw, func(g httpkit.Router) {
		dashhttp.RegisterPage(g, m.web)
	})
}

// Name returns the module name
func (m *Module) Name() string { return str.MustString(m.name, "module name") }

// Prefix returns the API mount path
func (m *Module) Prefix() string { return str.MustPrefix(m.prefix) }

// Ports returns the module ports (Runner, Controller)
func (m *Module) Ports() any { return m.ports }
