package web

// errors.go handles failures that end a request with an error status.
//
// Write failures never come through here: they redirect back to the list
// with an ?error= flag. What remains is:
//   - read failures, answered 500 with a generic message
//   - malformed keys, answered 400
//   - admin failures, answered 500
//
// The technical error is logged with the request id; the client only sees
// the generic message.

import (
	"net/http"

	"github.com/globalhsr/hsrdb/internal/logging"
	"github.com/globalhsr/hsrdb/internal/web/templates"
)

// respondError logs err and writes message with the given status.
// Partial requests get an HTML fragment so the page can show it in place.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int, message string) {
	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err,
	)

	if isPartial(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		templates.ErrorAlert(message, "", http.StatusText(status)).Render(r.Context(), w)
		return
	}
	http.Error(w, message, status)
}

// isHTMX checks if the request is an HTMX request.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// isPartial reports whether the client asked for a fragment instead of a full page.
func isPartial(r *http.Request) bool {
	return r.Header.Get("X-Partial") != "" || isHTMX(r)
}
