package web

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/globalhsr/hsrdb/internal/logging"
	"github.com/globalhsr/hsrdb/internal/web/templates"
)

// DefaultTitle is used for full pages rendered without a title.
const DefaultTitle = "Global HSR"

// render writes body as a fragment for partial requests, or wrapped in
// the shared layout otherwise. Rendering never touches the database.
func (s *Server) render(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Add("Vary", "X-Partial")
	w.Header().Add("Vary", "HX-Request")

	component := body
	if !isPartial(r) {
		if title == "" {
			title = DefaultTitle
		}
		component = templates.Layout(title, s.nav, body)
	}

	if err := component.Render(r.Context(), w); err != nil {
		// Headers are already sent; all that is left is to record it.
		logging.FromContext(r.Context()).Error("render failed", "path", r.URL.Path, "error", err)
	}
}
