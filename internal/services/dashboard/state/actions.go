package state

import (
	"time"

	"visitsdash/internal/services/dashboard/domain"
)

// Action is an input to Reduce
type Action interface{ action() }

// Mount issues the initial fetch. Only the first Mount has any effect
type Mount struct{}

// UpdateFilter edits one draft filter field
type UpdateFilter struct {
	Field domain.FilterField
	Value string
}

// SetPerPage changes the page size
type SetPerPage struct{ PerPage int }

// GoToPage moves the cursor to Page
type GoToPage struct{ Page int }

// NextPage moves one page forward
type NextPage struct{}

// PreviousPage moves one page back
type PreviousPage struct{}

// Search commits the draft filters and restarts from page 1
type Search struct{}

// SubmitSearch replaces the whole draft with Filters and searches, as one step
type SubmitSearch struct{ Filters domain.Filters }

// FetchSucceeded reports a resolved fetch
type FetchSucceeded struct {
	Request Request
	Page    domain.VisitPage
	At      time.Time
}

// FetchFailed reports a fetch that could not be completed
type FetchFailed struct {
	Request Request
	Err     error
	At      time.Time
}

// ReferenceLoaded delivers the filter option lists
type ReferenceLoaded struct {
	Data domain.ReferenceData
}

func (Mount) action()           {}
func (UpdateFilter) action()    {}
func (SetPerPage) action()      {}
func (GoToPage) action()        {}
func (NextPage) action()        {}
func (PreviousPage) action()    {}
func (Search) action()          {}
func (SubmitSearch) action()    {}
func (FetchSucceeded) action()  {}
func (FetchFailed) action()     {}
func (ReferenceLoaded) action() {}

// Effect is work Reduce asks its caller to perform
type Effect interface{ effect() }

// Fetch asks the caller to run one visits request and report back with
// FetchSucceeded or FetchFailed carrying the same Request
type Fetch struct{ Request Request }

// Settle tells the caller a fetch has resolved. Discarded is set when the
// response was dropped because a newer request had been issued
type Settle struct {
	Generation uint64
	Discarded  bool
}

func (Fetch) effect()  {}
func (Settle) effect() {}
