// Package web assembles the dashboard service: page, view API, meta and docs
package web

import (
	"time"

	"visitsdash/internal/modkit"
	"visitsdash/internal/modkit/httpkit"
	"visitsdash/internal/modkit/module"
	"visitsdash/internal/modkit/swaggerkit"
	"visitsdash/internal/platform/config"
	phttp "visitsdash/internal/platform/net/http"

	dashmod "visitsdash/internal/services/dashboard/module"
	metamod "visitsdash/internal/services/meta/module"
)

// Options are the web options
type Options struct {
	Config         config.Conf
	Deps           modkit.Deps
	Dashboard      dashmod.Options
	EnableSwagger  bool
	EnableProfiler bool
	CORSOrigins    []string
}

// Mount mounts every module onto r and returns the background runners the
// caller must start
func Mount(r phttp.Router, opt Options) []module.Runner {
	dash := dashmod.New(opt.Deps, opt.Dashboard)

	mods := []module.Module{
		metamod.New(opt.Deps),
		dash,
	}

	stack := httpkit.StackOptions{
		CORSOrigins: opt.CORSOrigins,
		Timeout:     opt.Config.MayDuration("REQUEST_TIMEOUT", 30*time.Second),
		SlowRequest: opt.Config.MayDuration("SLOW_REQUEST", time.Second),
	}

	// page and form posts at the root
	dash.MountPage(r, httpkit.WebStack(stack))

	// swagger + profiler
	swaggerkit.Mount(r, opt.EnableSwagger)
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	var runners []module.Runner
	httpkit.MountAPIV1(r, httpkit.CommonStack(stack), func(api httpkit.Router) {
		for _, m := range mods {
			// register each module's ports under its own name (for cross-module lookups)
			module.Register(m.Name(), m.Ports())
			m.MountRoutes(api)

			if run, ok := module.PortsOf[module.Runner](m); ok {
				runners = append(runners, run)
			}
		}
	})
	return runners
}
