// visitsdash serves the visits dashboard and its view API
//
// @title         visitsdash view API
// @version       0.1.0
// @description   Drives the visits dashboard query state. Mutating calls return the resulting view
// @BasePath      /api/v1

package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"visitsdash/internal/adapters/visitsapi"
	"visitsdash/internal/core/version"
	"visitsdash/internal/modkit"
	"visitsdash/internal/platform/config"
	"visitsdash/internal/platform/logger"
	phttp "visitsdash/internal/platform/net/http"
	"visitsdash/internal/platform/net/middleware"

	dashmod "visitsdash/internal/services/dashboard/module"
	"visitsdash/internal/services/web"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

func main() {
	// service-scoped config for HTTP etc (CORE_API_*), dashboard under DASH_*
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	dashCfg := root.Prefix("DASH_")

	l := logger.Get()
	bi := version.Info()
	l.Info().Str("version", bi.Version).Str("commit", bi.Commit).Msg("visitsdash starting")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	upstream := visitsapi.NewClient(visitsapi.FromConfig(dashCfg))
	l.Info().Str("upstream", upstream.BaseURL()).Msg("visits source configured")

	// http server (reads CORE_API_PORT); heartbeat sits ahead of routing for LB checks
	srv := phttp.NewServer(root.Prefix("CORE_"), func(m *chi.Mux) {
		m.Use(middleware.Heartbeat("/healthz"))
	})

	runners := web.Mount(srv.Router(), web.Options{
		Config: apiCfg,
		Deps: modkit.Deps{
			Log:      *l,
			Cfg:      root,
			Upstream: upstream,
		},
		Dashboard:      dashmod.FromConfig(root),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		CORSOrigins:    splitCSV(apiCfg.MayString("CORS_ORIGINS", "")),
	})

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	for _, r := range runners {
		g.Go(func() error { return r.Run(gctx) })
	}

	if err := g.Wait(); err != nil {
		l.Fatal().Err(err).Msg("visitsdash stopped")
	}
	l.Info().Msg("visitsdash stopped")
}

func splitCSV(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
