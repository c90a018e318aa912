package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/globalhsr/hsrdb/internal/core"
	"github.com/globalhsr/hsrdb/internal/logging"
	"github.com/globalhsr/hsrdb/internal/web/templates"
)

// maxFormSize bounds write request bodies; forms here are a few short fields.
const maxFormSize = 64 << 10

// IndexTitle is the home page heading.
const IndexTitle = "Global High-Speed Rail Infrastructure Database"

// handleIndex renders the home page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, IndexTitle, templates.Index(IndexTitle, s.nav))
}

// handleHealth reports whether the database is reachable.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	if err := s.service.Ping(r.Context()); err != nil {
		logging.FromContext(r.Context()).Warn("health check failed", "error", err)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("unavailable"))
		return
	}
	w.Write([]byte("ok"))
}

// handleList renders the entity's rows, the optional edit form, and the
// banner for the ?success= or ?error= flag of the previous write.
func (s *Server) handleList(def core.EntityDefinition) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		res, err := s.service.List(r.Context(), def.Info.Key, q.Get("edit"))
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError, "Error loading "+strings.ToLower(def.Info.Label))
			return
		}

		view := templates.EntityView{Result: res}
		if msg, ok := core.SuccessMessage(q.Get("success")); ok {
			view.Success = &msg
		}
		if msg, ok := core.ErrorMessage(q.Get("error")); ok {
			view.Error = &msg
		}

		s.render(w, r, def.Info.Label, templates.EntityPage(view))
	}
}

// handleWrite runs one create, update or delete and redirects back to the
// list with ?success=<op> or ?error=<flag>. A malformed key is answered
// 400 instead, since no list view can make sense of it.
func (s *Server) handleWrite(def core.EntityDefinition, op core.Op) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormSize)
		if err := r.ParseForm(); err != nil {
			s.respondError(w, r, err, http.StatusBadRequest, "Bad Request")
			return
		}

		log := logging.WithFields(r.Context(), "entity", def.Info.Key, "op", string(op))

		cmd, err := core.BuildCommand(def, op, r.PostForm)
		if err != nil {
			if errors.Is(err, core.ErrInvalidKey) {
				s.respondError(w, r, err, http.StatusBadRequest, "Bad Request: malformed record key")
				return
			}
			log.Info("rejected form", "error", err)
			s.redirectResult(w, r, def, "error", core.ErrorFlag(op, err))
			return
		}

		ctx := WithRequestMetadata(r.Context(), r)
		if err := s.service.Execute(ctx, cmd); err != nil {
			s.redirectResult(w, r, def, "error", core.ErrorFlag(op, err))
			return
		}
		s.redirectResult(w, r, def, "success", core.SuccessFlag(op))
	}
}

// redirectResult sends the client back to the entity list with one result flag.
func (s *Server) redirectResult(w http.ResponseWriter, r *http.Request, def core.EntityDefinition, key, flag string) {
	target := def.Path() + "?" + url.Values{key: {flag}}.Encode()
	http.Redirect(w, r, target, http.StatusSeeOther)
}
