// Package http provides meta endpoints
package http

import (
	stdctx "context"
	"net/http"
	"time"

	"visitsdash/internal/core/version"
	"visitsdash/internal/modkit/httpkit"
	ptime "visitsdash/internal/platform/time"
)

// Pinger is satisfied by adapters that expose Ping
type Pinger interface {
	Ping(stdctx.Context) error
}

// Liveness is satisfied by module ports whose background loop can be checked
type Liveness interface {
	Running() bool
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// Upstream is the visits source; nil reports the check as skipped
	Upstream     Pinger
	ReadyTimeout time.Duration
	// Loops visits every module loop to report, by module name
	Loops func(fn func(name string, l Liveness))
	Now   func() time.Time
}

type handlers struct {
	deps Deps
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.ReadyTimeout <= 0 {
		d.ReadyTimeout = 2 * time.Second
	}
	h := &handlers{deps: d}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
}

//
// Swagger DTOs and route docs
//

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"visitsdash"`
	Started string `json:"started" example:"2024-03-01T12:00:00Z"`
	Now     string `json:"now"     example:"2024-03-01T12:01:30Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"   example:"visits_api"`
	Status string `json:"status" example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"visits api /categories unreachable"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok degraded fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2024-03-01T12:01:30Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"visitsdash"`
	Started string `json:"started" example:"2024-03-01T12:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"90"`
}

// @Summary Liveness
// @Tags meta
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /meta/health [get]
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: ptime.Stamp(h.deps.StartedAt),
		Now:     ptime.Stamp(h.deps.Now()),
	}, nil
}

// ready pings the visits source and checks every module loop. Any failed
// check answers 503 with the check list
//
// @Summary Readiness, pings the visits source and checks module loops
// @Tags meta
// @Produce json
// @Success 200 {object} ReadyResponse
// @Failure 503 {object} ReadyResponse
// @Router /meta/ready [get]
func (h *handlers) ready(r *http.Request) (any, error) {
	ctx, cancel := stdctx.WithTimeout(r.Context(), h.deps.ReadyTimeout)
	defer cancel()

	up := ReadyCheck{Name: "visits_api", Status: "skipped"}
	if h.deps.Upstream != nil {
		up.Status = "ok"
		if err := h.deps.Upstream.Ping(ctx); err != nil {
			up.Status = "fail"
			up.Error = err.Error()
		}
	}
	checks := []ReadyCheck{up}
	if h.deps.Loops != nil {
		h.deps.Loops(func(name string, l Liveness) {
			c := ReadyCheck{Name: name + "_loop", Status: "ok"}
			if !l.Running() {
				c.Status = "fail"
				c.Error = "loop not running"
			}
			checks = append(checks, c)
		})
	}

	body := ReadyResponse{
		Status: "ok",
		Checks: checks,
		Now:    ptime.Stamp(h.deps.Now()),
	}
	for _, c := range checks {
		switch {
		case c.Status == "fail":
			body.Status = "fail"
		case c.Status == "skipped" && body.Status == "ok":
			body.Status = "degraded"
		}
	}
	if body.Status == "fail" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: body}, nil
	}
	return body, nil
}

// @Summary Build information
// @Tags meta
// @Produce json
// @Success 200 {object} version.BuildInfo
// @Router /meta/version [get]
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// @Summary Service name, start time and uptime
// @Tags meta
// @Produce json
// @Success 200 {object} ServiceResponse
// @Router /meta/service [get]
func (h *handlers) service(_ *http.Request) (any, error) {
	uptime := h.deps.Now().Sub(h.deps.StartedAt)
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: ptime.Stamp(h.deps.StartedAt),
		Uptime:  int64(uptime / time.Second),
	}, nil
}
