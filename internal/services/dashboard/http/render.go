package http

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"visitsdash/internal/platform/logger"
	"visitsdash/internal/services/dashboard/service"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// pageRenderer owns the parsed page template and the locale printer
type pageRenderer struct {
	tmpl    *template.Template
	printer *message.Printer
}

func newPageRenderer(locale string) *pageRenderer {
	tag, err := language.Parse(locale)
	if err != nil {
		logger.Named("dashboard").Warn().Err(err).Str("locale", locale).Msg("unknown locale, falling back to en-US")
		tag = language.AmericanEnglish
	}
	p := message.NewPrinter(tag)

	funcs := template.FuncMap{
		"count": func(n int64) string { return p.Sprintf("%d", n) },
		"int":   func(n int) string { return p.Sprintf("%d", n) },
	}
	tmpl := template.Must(template.New("dashboard").Funcs(funcs).ParseFS(templateFS, "templates/*.tmpl"))
	return &pageRenderer{tmpl: tmpl, printer: p}
}

// pageData is what the template sees
type pageData struct {
	View           service.View
	PerPageOptions []int
	// FormError is a rejected form submission, shown above the filters
	FormError      string
	FormErrorField string
}

// render writes the dashboard with status. The template runs into a buffer so
// a template failure never leaves a half written page
func (pr *pageRenderer) render(w http.ResponseWriter, r *http.Request, status int, data pageData) {
	var buf bytes.Buffer
	if err := pr.tmpl.ExecuteTemplate(&buf, "dashboard.html.tmpl", data); err != nil {
		logger.C(r.Context()).Error().Err(err).Msg("dashboard template failed")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// perPageChoices returns opts with current added when it is not one of them
func perPageChoices(opts []int, current int) []int {
	for _, n := range opts {
		if n == current {
			return opts
		}
	}
	out := make([]int, 0, len(opts)+1)
	added := false
	for _, n := range opts {
		if !added && current < n {
			out = append(out, current)
			added = true
		}
		out = append(out, n)
	}
	if !added {
		out = append(out, current)
	}
	return out
}
