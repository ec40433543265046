// Package service runs the dashboard query controller: one goroutine owns the
// state, callers post actions to it and fetches report back as actions
package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	perr "visitsdash/internal/platform/errors"
	"visitsdash/internal/platform/logger"
	"visitsdash/internal/services/dashboard/domain"
	"visitsdash/internal/services/dashboard/state"

	"github.com/google/uuid"
)

// ErrStopped is returned once the controller loop has exited
var ErrStopped = perr.New(perr.ErrorCodeUnavailable, "dashboard controller stopped")

// Options configures a Controller
type Options struct {
	PerPage        int
	FenceResponses bool
	FetchTimeout   time.Duration

	// seams for tests
	Now          func() time.Time
	NewRequestID func() string
}

func (o Options) withDefaults() Options {
	if o.PerPage < 1 {
		o.PerPage = state.DefaultPerPage
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 10 * time.Second
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewRequestID == nil {
		o.NewRequestID = uuid.NewString
	}
	return o
}

type envelope struct {
	action state.Action
	reply  chan Ticket
}

// Controller serializes every state change through a single loop
type Controller struct {
	src domain.VisitSource
	opt Options

	inbox   chan envelope
	done    chan struct{}
	started atomic.Bool
	view    atomic.Pointer[View]
	fetches sync.WaitGroup
}

// New builds a controller reading visits from src. Nothing happens until Run
func New(src domain.VisitSource, opt Options) *Controller {
	if src == nil {
		panic("dashboard.Controller requires a non nil VisitSource")
	}
	opt = opt.withDefaults()
	c := &Controller{
		src:   src,
		opt:   opt,
		inbox: make(chan envelope),
		done:  make(chan struct{}),
	}
	v := viewOf(state.New(opt.PerPage, state.Policy{FenceResponses: opt.FenceResponses}))
	c.view.Store(&v)
	return c
}

// Run owns the state until ctx is cancelled. It must be called exactly once
func (c *Controller) Run(ctx context.Context) error {
	if !c.started.CompareAndSwap(false, true) {
		return perr.New(perr.ErrorCodeUnknown, "dashboard controller already running")
	}
	log := logger.Named("dashboard")

	defer c.fetches.Wait()
	defer close(c.done)

	st := state.New(c.opt.PerPage, state.Policy{FenceResponses: c.opt.FenceResponses})
	waiters := make(map[uint64]chan struct{})

	log.Info().
		Int("per_page", st.Paging.PerPage).
		Bool("fence_responses", st.Policy.FenceResponses).
		Msg("dashboard controller started")

	for {
		select {
		case <-ctx.Done():
			log.Info().Uint64("issued", st.Issued).Int("in_flight", st.InFlight).Msg("dashboard controller stopped")
			return ctx.Err()
		case env := <-c.inbox:
			next, effects := state.Reduce(st, env.action)
			st = next

			// publish before apply so a woken waiter reads the settled view
			v := viewOf(st)
			c.view.Store(&v)

			t := c.apply(ctx, effects, waiters)

			if env.reply != nil {
				env.reply <- t
			}
		}
	}
}

// apply runs effects in order. A Settle immediately followed by a Fetch (page
// clamp) hands its waiters over to the follow-up fetch
func (c *Controller) apply(ctx context.Context, effects []state.Effect, waiters map[uint64]chan struct{}) Ticket {
	var (
		t     Ticket
		carry chan struct{}
	)
	for _, e := range effects {
		switch e := e.(type) {
		case state.Settle:
			if ch, ok := waiters[e.Generation]; ok {
				delete(waiters, e.Generation)
				carry = ch
			}
			if e.Discarded {
				logger.Named("dashboard").Debug().Uint64("generation", e.Generation).Msg("stale visits response discarded")
			}
		case state.Fetch:
			ch := carry
			carry = nil
			if ch == nil {
				ch = make(chan struct{})
			}
			waiters[e.Request.Generation] = ch
			t = Ticket{Generation: e.Request.Generation, done: ch, stopped: c.done}

			c.fetches.Add(1)
			go c.fetch(ctx, e.Request)
		}
	}
	if carry != nil {
		close(carry)
	}
	return t
}

// fetch performs one visits request and posts the outcome back to the loop
func (c *Controller) fetch(ctx context.Context, req state.Request) {
	defer c.fetches.Done()

	reqID := c.opt.NewRequestID()
	ctx = logger.WithFetch(ctx, req.Generation, reqID)
	log := logger.C(ctx)

	fctx, cancel := context.WithTimeout(ctx, c.opt.FetchTimeout)
	defer cancel()

	q := req.Query()
	q.RequestID = reqID

	start := time.Now()
	page, err := c.src.Visits(fctx, q)
	took := time.Since(start)

	var a state.Action
	if err != nil {
		if perr.CodeOf(err) == perr.ErrorCodeUnknown {
			err = perr.Wrap(err, perr.ErrorCodeUnavailable, "visits fetch")
		}
		log.Warn().Err(err).
			Str("cause", perr.Root(err).Error()).
			Int("page", req.Page).
			Int("per_page", req.PerPage).
			Dur("took", took).
			Msg("visits fetch failed")
		a = state.FetchFailed{Request: req, Err: err, At: c.opt.Now()}
	} else {
		log.Debug().
			Int("page", req.Page).
			Int("per_page", req.PerPage).
			Int("rows", len(page.Rows)).
			Int("pages", page.Pages).
			Dur("took", took).
			Msg("visits fetched")
		a = state.FetchSucceeded{Request: req, Page: page, At: c.opt.Now()}
	}

	select {
	case c.inbox <- envelope{action: a}:
	case <-c.done:
	}
}

// dispatch hands a to the loop and returns the ticket of the fetch it caused
func (c *Controller) dispatch(ctx context.Context, a state.Action) (Ticket, error) {
	reply := make(chan Ticket, 1)
	select {
	case c.inbox <- envelope{action: a, reply: reply}:
	case <-c.done:
		return Ticket{}, ErrStopped
	case <-ctx.Done():
		return Ticket{}, perr.Wrap(ctx.Err(), perr.ErrorCodeTimeout, "dashboard controller busy")
	}
	return <-reply, nil
}

// Running reports whether the loop has started and not yet exited
func (c *Controller) Running() bool {
	if !c.started.Load() {
		return false
	}
	select {
	case <-c.done:
		return false
	default:
		return true
	}
}

// View returns the latest published snapshot
func (c *Controller) View() View { return *c.view.Load() }

// Mount issues the initial fetch. Later calls are no-ops
func (c *Controller) Mount(ctx context.Context) (Ticket, error) {
	return c.dispatch(ctx, state.Mount{})
}

// UpdateFilterField edits one draft filter. It never fetches
func (c *Controller) UpdateFilterField(ctx context.Context, name, value string) error {
	f, err := domain.ParseFilterField(name)
	if err != nil {
		return err
	}
	_, err = c.dispatch(ctx, state.UpdateFilter{Field: f, Value: value})
	return err
}

// SetPerPage changes the page size; an unchanged size does not fetch
func (c *Controller) SetPerPage(ctx context.Context, n int) (Ticket, error) {
	if n < 1 {
		return Ticket{}, perr.WithField(perr.InvalidArgf("per_page must be at least 1, got %d", n), "per_page")
	}
	return c.dispatch(ctx, state.SetPerPage{PerPage: n})
}

// GoToPage moves to page p; out of range or current pages are no-ops
func (c *Controller) GoToPage(ctx context.Context, p int) (Ticket, error) {
	return c.dispatch(ctx, state.GoToPage{Page: p})
}

// Next moves one page forward, inert on the last page
func (c *Controller) Next(ctx context.Context) (Ticket, error) {
	return c.dispatch(ctx, state.NextPage{})
}

// Previous moves one page back, inert on the first page
func (c *Controller) Previous(ctx context.Context) (Ticket, error) {
	return c.dispatch(ctx, state.PreviousPage{})
}

// Search commits the draft filters and fetches page 1
func (c *Controller) Search(ctx context.Context) (Ticket, error) {
	return c.dispatch(ctx, state.Search{})
}

// SearchWith replaces the whole draft with f and searches in one step, so
// concurrent submissions never commit a mix of each other's fields
func (c *Controller) SearchWith(ctx context.Context, f domain.Filters) (Ticket, error) {
	return c.dispatch(ctx, state.SubmitSearch{Filters: f})
}

// LoadReference delivers the filter option lists; only the first call sticks
func (c *Controller) LoadReference(ctx context.Context, data domain.ReferenceData) error {
	_, err := c.dispatch(ctx, state.ReferenceLoaded{Data: data})
	return err
}
