// Package state is the pure core of the dashboard query controller.
//
// Reduce folds one Action into a State and returns the effects the caller must run.
// The only effect that touches the network is Fetch, and it is produced in exactly
// one place (issue), called only when page or per_page is (re)set:
//
//	Mount         first fetch, page 1
//	SetPerPage    per_page changed
//	GoToPage      page changed (Next/Previous included)
//	Search        draft filters committed, page reset to 1
//	FetchSucceeded  page clamped because the result has fewer pages
//
// UpdateFilter never fetches. A page change after a filter edit without Search
// queries with the committed filters, not the draft.
package state

import (
	"time"

	"visitsdash/internal/services/dashboard/domain"
)

// DefaultPerPage is the page size a fresh dashboard starts with
const DefaultPerPage = 10

// Status is the kind of the last resolved fetch
type Status string

// Fetch outcome kinds
const (
	StatusIdle   Status = "idle"
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Outcome describes the last fetch that was allowed to touch the view
type Outcome struct {
	Status     Status
	Err        error
	Generation uint64
	At         time.Time
}

// PageState is the pagination cursor
type PageState struct {
	Page       int `json:"page"`
	PerPage    int `json:"per_page"`
	TotalPages int `json:"total_pages"`
}

// Request is the parameter set of one issued fetch
type Request struct {
	Generation uint64
	Page       int
	PerPage    int
	Filters    domain.Filters
}

// Query converts r into the source query shape
func (r Request) Query() domain.Query {
	return domain.Query{Page: r.Page, PerPage: r.PerPage, Filters: r.Filters}
}

// Policy holds behaviour switches fixed for the life of a controller
type Policy struct {
	// FenceResponses discards responses older than the latest issued request.
	// Off means whichever response resolves last is displayed
	FenceResponses bool
}

// State is the whole dashboard state. Values are treated as immutable: slices are
// replaced wholesale, never written in place, so snapshots may be shared freely
type State struct {
	Draft     domain.Filters
	Committed domain.Filters
	Paging    PageState

	Rows   []domain.VisitRecord
	Loaded bool
	// Shown is the request whose response produced Rows
	Shown Request

	Reference       domain.ReferenceData
	ReferenceLoaded bool

	// Issued is the generation of the most recent fetch; zero before mount
	Issued   uint64
	InFlight int
	Last     Outcome

	Policy Policy
}

// New returns the state of a freshly mounted dashboard, before any fetch
func New(perPage int, p Policy) State {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	return State{
		Paging: PageState{Page: 1, PerPage: perPage, TotalPages: 1},
		Last:   Outcome{Status: StatusIdle},
		Policy: p,
	}
}

// CanPrevious reports whether the Previous control is enabled
func (s State) CanPrevious() bool { return s.Paging.Page > 1 }

// CanNext reports whether the Next control is enabled
func (s State) CanNext() bool { return s.Paging.Page < s.Paging.TotalPages }

// Stale reports whether the draft holds edits not yet applied by Search
func (s State) Stale() bool { return s.Draft != s.Committed }

// Pending reports whether any fetch is still outstanding
func (s State) Pending() bool { return s.InFlight > 0 }
