// Package domain holds the dashboard types shared by the state reducer, the controller and the transports
package domain

import (
	"bytes"
	"encoding/json"
	"strings"

	perr "visitsdash/internal/platform/errors"
)

// FilterField names one of the six filter inputs
type FilterField string

// Recognized filter keys, named as they travel on the wire
const (
	FieldStartDate   FilterField = "start_date"
	FieldEndDate     FilterField = "end_date"
	FieldPOIName     FilterField = "poi_name"
	FieldPOICategory FilterField = "poi_category"
	FieldDMA         FilterField = "dma"
	FieldSearch      FilterField = "search"
)

// FilterFields lists every recognized key in display order
var FilterFields = []FilterField{
	FieldStartDate,
	FieldEndDate,
	FieldPOIName,
	FieldPOICategory,
	FieldDMA,
	FieldSearch,
}

// ParseFilterField maps a wire name onto a FilterField
func ParseFilterField(s string) (FilterField, error) {
	f := FilterField(strings.TrimSpace(s))
	for _, k := range FilterFields {
		if k == f {
			return f, nil
		}
	}
	return "", perr.WithField(perr.InvalidArgf("unknown filter field %q", s), "field")
}

// Filters is one set of filter values; empty string means no constraint
type Filters struct {
	StartDate   string `json:"start_date"`
	EndDate     string `json:"end_date"`
	POIName     string `json:"poi_name"`
	POICategory string `json:"poi_category"`
	DMA         string `json:"dma"`
	Search      string `json:"search"`
}

// Get returns the value of field
func (f Filters) Get(field FilterField) string {
	switch field {
	case FieldStartDate:
		return f.StartDate
	case FieldEndDate:
		return f.EndDate
	case FieldPOIName:
		return f.POIName
	case FieldPOICategory:
		return f.POICategory
	case FieldDMA:
		return f.DMA
	case FieldSearch:
		return f.Search
	}
	return ""
}

// With returns a copy of f with field set to value; unknown fields leave f unchanged
func (f Filters) With(field FilterField, value string) Filters {
	switch field {
	case FieldStartDate:
		f.StartDate = value
	case FieldEndDate:
		f.EndDate = value
	case FieldPOIName:
		f.POIName = value
	case FieldPOICategory:
		f.POICategory = value
	case FieldDMA:
		f.DMA = value
	case FieldSearch:
		f.Search = value
	}
	return f
}

// Each calls fn for every non-empty field in display order
func (f Filters) Each(fn func(FilterField, string)) {
	for _, k := range FilterFields {
		if v := f.Get(k); v != "" {
			fn(k, v)
		}
	}
}

// RecordID is the identifier of a visit row; the source may send it as a number or a string
type RecordID string

// UnmarshalJSON accepts both JSON numbers and strings
func (id *RecordID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = RecordID(n.String())
	return nil
}

// VisitRecord is one row of the visits table. Rows are never mutated once received
type VisitRecord struct {
	ID          RecordID `json:"id"`
	Date        string   `json:"date"`
	POIName     string   `json:"poi_name"`
	POICategory string   `json:"poi_category"`
	DMA         string   `json:"dma"`
	Visits      int64    `json:"visits"`
}

// Query is the parameter set of one visits request
type Query struct {
	Page    int
	PerPage int
	Filters Filters

	// RequestID correlates the request with upstream logs
	RequestID string
}

// VisitPage is one page of visits as returned by the source
type VisitPage struct {
	Rows  []VisitRecord `json:"data"`
	Pages int           `json:"pages"`
}

// ReferenceData holds the selectable categories and DMAs
type ReferenceData struct {
	Categories []string `json:"categories"`
	DMAs       []string `json:"dmas"`
}
