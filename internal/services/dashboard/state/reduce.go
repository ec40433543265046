package state

// Reduce applies a to s and returns the next state and the effects to run
func Reduce(s State, a Action) (State, []Effect) {
	switch a := a.(type) {
	case Mount:
		if s.Issued > 0 {
			return s, nil
		}
		return issue(s)

	case UpdateFilter:
		s.Draft = s.Draft.With(a.Field, a.Value)
		return s, nil

	case SetPerPage:
		if a.PerPage < 1 || a.PerPage == s.Paging.PerPage {
			return s, nil
		}
		s.Paging.PerPage = a.PerPage
		return issue(s)

	case GoToPage:
		return goTo(s, a.Page)

	case NextPage:
		return goTo(s, s.Paging.Page+1)

	case PreviousPage:
		return goTo(s, s.Paging.Page-1)

	case Search:
		return search(s)

	case SubmitSearch:
		s.Draft = a.Filters
		return search(s)

	case FetchSucceeded:
		return succeeded(s, a)

	case FetchFailed:
		return failed(s, a)

	case ReferenceLoaded:
		if s.ReferenceLoaded {
			return s, nil
		}
		s.Reference = a.Data
		s.ReferenceLoaded = true
		return s, nil
	}
	return s, nil
}

// goTo is a no-op outside [1, total_pages] and when p is already current
func goTo(s State, p int) (State, []Effect) {
	if p < 1 || p > s.Paging.TotalPages || p == s.Paging.Page {
		return s, nil
	}
	s.Paging.Page = p
	return issue(s)
}

// issue is the single place a Fetch effect is created. It always queries the
// committed filters
func issue(s State) (State, []Effect) {
	s.Issued++
	s.InFlight++
	req := Request{
		Generation: s.Issued,
		Page:       s.Paging.Page,
		PerPage:    s.Paging.PerPage,
		Filters:    s.Committed,
	}
	return s, []Effect{Fetch{Request: req}}
}

func stale(s State, r Request) bool {
	return s.Policy.FenceResponses && r.Generation < s.Issued
}

func resolve(s State) State {
	if s.InFlight > 0 {
		s.InFlight--
	}
	return s
}

func succeeded(s State, a FetchSucceeded) (State, []Effect) {
	s = resolve(s)
	gen := a.Request.Generation
	if stale(s, a.Request) {
		return s, []Effect{Settle{Generation: gen, Discarded: true}}
	}

	s.Rows = a.Page.Rows
	s.Loaded = true
	s.Shown = a.Request
	s.Paging.TotalPages = max(a.Page.Pages, 1)
	s.Last = Outcome{Status: StatusOK, Generation: gen, At: a.At}

	effects := []Effect{Settle{Generation: gen}}
	if s.Paging.Page > s.Paging.TotalPages {
		s.Paging.Page = s.Paging.TotalPages
		var more []Effect
		s, more = issue(s)
		effects = append(effects, more...)
	}
	return s, effects
}

func failed(s State, a FetchFailed) (State, []Effect) {
	s = resolve(s)
	gen := a.Request.Generation
	if stale(s, a.Request) {
		return s, []Effect{Settle{Generation: gen, Discarded: true}}
	}
	s.Last = Outcome{Status: StatusFailed, Err: a.Err, Generation: gen, At: a.At}
	return s, []Effect{Settle{Generation: gen}}
}

func search(s State) (State, []Effect) {
	s.Committed = s.Draft
	s.Paging.Page = 1
	return issue(s)
}
