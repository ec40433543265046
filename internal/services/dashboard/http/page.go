package http

import (
	"net/http"

	"visitsdash/internal/modkit/httpkit"
	perr "visitsdash/internal/platform/errors"
	"visitsdash/internal/platform/logger"
	"visitsdash/internal/platform/net/http/bind"
	"visitsdash/internal/services/dashboard/domain"
	"visitsdash/internal/services/dashboard/service"
)

// RegisterPage mounts the dashboard page and its form posts on r.
// Every post waits for the fetch it triggered, bounded by WaitTimeout, then
// redirects back to the page
func RegisterPage(r httpkit.Router, d Deps) {
	h := newHandlers(d)

	r.Get("/", h.show)
	r.Post("/search", h.submitSearch)
	r.Post("/previous", h.formAction(func(r *http.Request) (service.Ticket, error) {
		return h.deps.Controller.Previous(r.Context())
	}))
	r.Post("/next", h.formAction(func(r *http.Request) (service.Ticket, error) {
		return h.deps.Controller.Next(r.Context())
	}))
	r.Post("/page", h.formAction(func(r *http.Request) (service.Ticket, error) {
		p, err := formInt(r, "page")
		if err != nil {
			return service.Ticket{}, err
		}
		return h.deps.Controller.GoToPage(r.Context(), p)
	}))
	r.Post("/per-page", h.formAction(func(r *http.Request) (service.Ticket, error) {
		n, err := formInt(r, "per_page")
		if err != nil {
			return service.Ticket{}, err
		}
		if err := bind.Validate(perPageIn{PerPage: n}); err != nil {
			return service.Ticket{}, err
		}
		return h.deps.Controller.SetPerPage(r.Context(), n)
	}))
}

// searchForm carries all six filter inputs of the search form
type searchForm struct {
	StartDate   string `json:"start_date" validate:"iso_date"`
	EndDate     string `json:"end_date" validate:"iso_date"`
	POIName     string `json:"poi_name" validate:"max=200"`
	POICategory string `json:"poi_category" validate:"max=200"`
	DMA         string `json:"dma" validate:"max=200"`
	Search      string `json:"search" validate:"max=200"`
}

func (f searchForm) filters() domain.Filters {
	return domain.Filters{
		StartDate:   f.StartDate,
		EndDate:     f.EndDate,
		POIName:     f.POIName,
		POICategory: f.POICategory,
		DMA:         f.DMA,
		Search:      f.Search,
	}
}

func (h *handlers) data(formErr error) pageData {
	v := h.deps.Controller.View()
	d := pageData{
		View:           v,
		PerPageOptions: perPageChoices(h.deps.PerPageOptions, v.Paging.PerPage),
	}
	if formErr != nil {
		w := perr.WireFrom(formErr)
		d.FormError, d.FormErrorField = w.Message, w.Field
	}
	return d
}

func (h *handlers) show(w http.ResponseWriter, r *http.Request) {
	h.page.render(w, r, http.StatusOK, h.data(nil))
}

// fail re-renders the page with the rejected submission explained
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, _ := perr.HTTP(err)
	logger.C(r.Context()).Info().Err(err).Int("status", status).Msg("dashboard form rejected")
	h.page.render(w, r, status, h.data(err))
}

// submitSearch replaces the draft with the form's fields and searches
func (h *handlers) submitSearch(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.fail(w, r, perr.Wrap(err, perr.ErrorCodeValidation, "unreadable form"))
		return
	}
	form := searchForm{
		StartDate:   r.PostForm.Get(string(domain.FieldStartDate)),
		EndDate:     r.PostForm.Get(string(domain.FieldEndDate)),
		POIName:     r.PostForm.Get(string(domain.FieldPOIName)),
		POICategory: r.PostForm.Get(string(domain.FieldPOICategory)),
		DMA:         r.PostForm.Get(string(domain.FieldDMA)),
		Search:      r.PostForm.Get(string(domain.FieldSearch)),
	}
	if err := bind.Validate(form); err != nil {
		h.fail(w, r, err)
		return
	}
	t, err := h.deps.Controller.SearchWith(r.Context(), form.filters())
	h.finish(w, r, t, err)
}

// formAction adapts a page or per-page post. These forms carry no filter
// fields, so the fetch they cause uses the committed filters
func (h *handlers) formAction(do func(*http.Request) (service.Ticket, error)) httpkit.Handler {
	return func(w http.ResponseWriter, r *http.Request) {
		t, err := do(r)
		h.finish(w, r, t, err)
	}
}

func (h *handlers) finish(w http.ResponseWriter, r *http.Request, t service.Ticket, err error) {
	if err == nil {
		err = h.settle(r, t, true)
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
