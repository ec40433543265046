package http

import (
	"net/http"

	"visitsdash/internal/modkit/httpkit"
	"visitsdash/internal/modkit/swaggerkit"
	"visitsdash/internal/platform/net/http/bind"
	"visitsdash/internal/services/dashboard/domain"
	"visitsdash/internal/services/dashboard/service"
)

func init() {
	swaggerkit.Register(filterFieldEnum)
}

// filterFieldEnum lists the accepted filter keys on FilterEdit.field so the
// document cannot drift from ParseFilterField
func filterFieldEnum(spec map[string]any) {
	comps, _ := spec["components"].(map[string]any)
	schemas, _ := comps["schemas"].(map[string]any)
	edit, _ := schemas["FilterEdit"].(map[string]any)
	props, _ := edit["properties"].(map[string]any)
	field, ok := props["field"].(map[string]any)
	if !ok {
		return
	}
	enum := make([]any, 0, len(domain.FilterFields))
	for _, f := range domain.FilterFields {
		enum = append(enum, string(f))
	}
	field["enum"] = enum
}

// RegisterAPI mounts the JSON view API on r, usually scoped to /api/v1/dashboard
func RegisterAPI(r httpkit.Router, d Deps) {
	h := newHandlers(d)

	httpkit.Get(r, "/state", h.state)
	httpkit.PostJSON(r, "/filters", h.editFilter)
	httpkit.Post(r, "/search", h.search)
	httpkit.PostJSON(r, "/page", h.goToPage)
	httpkit.Post(r, "/next", h.next)
	httpkit.Post(r, "/previous", h.previous)
	httpkit.PostJSON(r, "/per-page", h.setPerPage)
}

// ActionResult is the answer to every mutating call
type ActionResult struct {
	// Fetched reports whether the call issued a visits fetch
	Fetched    bool         `json:"fetched"`
	Generation uint64       `json:"generation,omitempty"`
	View       service.View `json:"view"`
}

// filterEdit is documented as FilterEdit
type filterEdit struct {
	Field string `json:"field" validate:"required" example:"poi_name"`
	Value string `json:"value" validate:"max=200" example:"Central Park"`
} // @name FilterEdit

type dateValue struct {
	Value string `json:"value" validate:"iso_date"`
}

type pageIn struct {
	Page int `json:"page" validate:"required,min=1" example:"2"`
} // @name PageIn

type perPageIn struct {
	PerPage int `json:"per_page" validate:"required,min=1" example:"25"`
} // @name PerPageIn

func (h *handlers) result(r *http.Request, t service.Ticket, err error) (any, error) {
	if err != nil {
		return nil, err
	}
	if err := h.settle(r, t, wantWait(r)); err != nil {
		return nil, err
	}
	return ActionResult{
		Fetched:    t.Issued(),
		Generation: t.Generation,
		View:       h.deps.Controller.View(),
	}, nil
}

// @Summary Current view snapshot
// @Tags dashboard
// @Produce json
// @Success 200 {object} service.View
// @Router /dashboard/state [get]
func (h *handlers) state(_ *http.Request) (any, error) {
	return h.deps.Controller.View(), nil
}

// @Summary Edit one draft filter field. Never fetches
// @Tags dashboard
// @Accept json
// @Produce json
// @Param payload body filterEdit true "Field and value"
// @Success 200 {object} ActionResult
// @Failure 422 {string} string "unknown field"
// @Router /dashboard/filters [post]
func (h *handlers) editFilter(r *http.Request, in filterEdit) (any, error) {
	field, err := domain.ParseFilterField(in.Field)
	if err != nil {
		return nil, err
	}
	if field == domain.FieldStartDate || field == domain.FieldEndDate {
		if err := bind.Validate(dateValue{Value: in.Value}); err != nil {
			return nil, err
		}
	}
	if err := h.deps.Controller.UpdateFilterField(r.Context(), string(field), in.Value); err != nil {
		return nil, err
	}
	return ActionResult{View: h.deps.Controller.View()}, nil
}

// @Summary Commit the draft filters and fetch page 1
// @Tags dashboard
// @Produce json
// @Param wait query bool false "block until the fetch settles"
// @Success 200 {object} ActionResult
// @Router /dashboard/search [post]
func (h *handlers) search(r *http.Request) (any, error) {
	t, err := h.deps.Controller.Search(r.Context())
	return h.result(r, t, err)
}

// @Summary Go to a page using the committed filters
// @Tags dashboard
// @Accept json
// @Produce json
// @Param wait query bool false "block until the fetch settles"
// @Param payload body pageIn true "Target page"
// @Success 200 {object} ActionResult
// @Router /dashboard/page [post]
func (h *handlers) goToPage(r *http.Request, in pageIn) (any, error) {
	t, err := h.deps.Controller.GoToPage(r.Context(), in.Page)
	return h.result(r, t, err)
}

// @Summary Next page, inert on the last page
// @Tags dashboard
// @Produce json
// @Param wait query bool false "block until the fetch settles"
// @Success 200 {object} ActionResult
// @Router /dashboard/next [post]
func (h *handlers) next(r *http.Request) (any, error) {
	t, err := h.deps.Controller.Next(r.Context())
	return h.result(r, t, err)
}

// @Summary Previous page, inert on the first page
// @Tags dashboard
// @Produce json
// @Param wait query bool false "block until the fetch settles"
// @Success 200 {object} ActionResult
// @Router /dashboard/previous [post]
func (h *handlers) previous(r *http.Request) (any, error) {
	t, err := h.deps.Controller.Previous(r.Context())
	return h.result(r, t, err)
}

// @Summary Change the page size and refetch page 1
// @Tags dashboard
// @Accept json
// @Produce json
// @Param wait query bool false "block until the fetch settles"
// @Param payload body perPageIn true "Rows per page"
// @Success 200 {object} ActionResult
// @Router /dashboard/per-page [post]
func (h *handlers) setPerPage(r *http.Request, in perPageIn) (any, error) {
	t, err := h.deps.Controller.SetPerPage(r.Context(), in.PerPage)
	return h.result(r, t, err)
}
