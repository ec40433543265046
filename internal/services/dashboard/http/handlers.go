// Package http serves the dashboard: a server rendered page driven by form
// posts and a JSON view API over the same controller
package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	perr "visitsdash/internal/platform/errors"
	"visitsdash/internal/platform/logger"
	"visitsdash/internal/services/dashboard/domain"
	"visitsdash/internal/services/dashboard/service"
)

// Controller is the slice of the dashboard controller the transport drives
type Controller interface {
	View() service.View
	UpdateFilterField(ctx context.Context, name, value string) error
	Search(ctx context.Context) (service.Ticket, error)
	SearchWith(ctx context.Context, f domain.Filters) (service.Ticket, error)
	SetPerPage(ctx context.Context, n int) (service.Ticket, error)
	GoToPage(ctx context.Context, p int) (service.Ticket, error)
	Next(ctx context.Context) (service.Ticket, error)
	Previous(ctx context.Context) (service.Ticket, error)
}

// Deps are the handler dependencies
type Deps struct {
	Controller Controller
	// WaitTimeout bounds how long a request waits for the fetch it triggered
	WaitTimeout time.Duration
	// Locale drives number formatting on the page, a BCP 47 tag
	Locale string
	// PerPageOptions are offered by the page size selector
	PerPageOptions []int
}

func (d Deps) withDefaults() Deps {
	if d.Controller == nil {
		panic("dashboard http requires a Controller")
	}
	if d.WaitTimeout <= 0 {
		d.WaitTimeout = 5 * time.Second
	}
	if d.Locale == "" {
		d.Locale = "en-US"
	}
	if len(d.PerPageOptions) == 0 {
		d.PerPageOptions = []int{10, 25, 50, 100}
	}
	return d
}

type handlers struct {
	deps Deps
	page *pageRenderer
}

func newHandlers(d Deps) *handlers {
	d = d.withDefaults()
	return &handlers{deps: d, page: newPageRenderer(d.Locale)}
}

// settle waits for t when asked to. Running out of wait time is not an
// error: the caller gets the current view with the fetch still in flight
func (h *handlers) settle(r *http.Request, t service.Ticket, wait bool) error {
	if !wait || !t.Issued() {
		return nil
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.deps.WaitTimeout)
	defer cancel()

	err := t.Wait(ctx)
	if perr.IsCode(err, perr.ErrorCodeTimeout) {
		logger.C(r.Context()).Warn().
			Uint64("generation", t.Generation).
			Dur("waited", h.deps.WaitTimeout).
			Msg("visits fetch still in flight, answering with current view")
		return nil
	}
	return err
}

// formInt reads an integer form or query value, reporting failures against name
func formInt(r *http.Request, name string) (int, error) {
	raw := r.FormValue(name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s must be a whole number", name), name)
	}
	return n, nil
}

// wantWait reports whether the caller asked to block on the triggered fetch
func wantWait(r *http.Request) bool {
	ok, _ := strconv.ParseBool(r.URL.Query().Get("wait"))
	return ok
}
