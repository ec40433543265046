package service

import (
	"context"
	"time"

	perr "visitsdash/internal/platform/errors"
	ptime "visitsdash/internal/platform/time"
	"visitsdash/internal/services/dashboard/domain"
	"visitsdash/internal/services/dashboard/state"
)

// Ticket identifies the fetch an action caused, if any
type Ticket struct {
	Generation uint64
	done       <-chan struct{}
	stopped    <-chan struct{}
}

// Issued reports whether the action triggered a fetch
func (t Ticket) Issued() bool { return t.done != nil }

// Wait blocks until the fetch resolves. A page clamp extends the wait to the
// follow-up fetch. Returns immediately when nothing was issued
func (t Ticket) Wait(ctx context.Context) error {
	if t.done == nil {
		return nil
	}
	select {
	case <-t.done:
		return nil
	case <-t.stopped:
		return ErrStopped
	case <-ctx.Done():
		return perr.Wrap(ctx.Err(), perr.ErrorCodeTimeout, "wait for visits fetch")
	}
}

// Outcome is the result of the last fetch allowed to touch the view
type Outcome struct {
	Status     state.Status `json:"status"`
	Error      *perr.Wire   `json:"error,omitempty"`
	Generation uint64       `json:"generation"`
	At         *time.Time   `json:"at,omitempty"`
}

// View is an immutable snapshot of the dashboard for rendering
type View struct {
	Draft     domain.Filters       `json:"draft"`
	Committed domain.Filters       `json:"committed"`
	Paging    state.PageState      `json:"paging"`
	Rows      []domain.VisitRecord `json:"rows"`
	Loaded    bool                 `json:"loaded"`
	Reference domain.ReferenceData `json:"reference"`
	Outcome   Outcome              `json:"outcome"`

	Issued      uint64 `json:"issued"`
	InFlight    int    `json:"in_flight"`
	CanPrevious bool   `json:"can_previous"`
	CanNext     bool   `json:"can_next"`
	Stale       bool   `json:"stale"`
}

// Failed reports whether the last fetch failed
func (v View) Failed() bool { return v.Outcome.Status == state.StatusFailed }

func viewOf(s state.State) View {
	v := View{
		Draft:     s.Draft,
		Committed: s.Committed,
		Paging:    s.Paging,
		Rows:      s.Rows,
		Loaded:    s.Loaded,
		Reference: s.Reference,
		Outcome: Outcome{
			Status:     s.Last.Status,
			Generation: s.Last.Generation,
		},
		Issued:      s.Issued,
		InFlight:    s.InFlight,
		CanPrevious: s.CanPrevious(),
		CanNext:     s.CanNext(),
		Stale:       s.Stale(),
	}
	if v.Rows == nil {
		v.Rows = []domain.VisitRecord{}
	}
	if v.Reference.Categories == nil {
		v.Reference.Categories = []string{}
	}
	if v.Reference.DMAs == nil {
		v.Reference.DMAs = []string{}
	}
	if s.Last.Err != nil {
		w := perr.WireFrom(s.Last.Err)
		v.Outcome.Error = &w
	}
	v.Outcome.At = ptime.UTC(ptime.Ptr(s.Last.At))
	return v
}
