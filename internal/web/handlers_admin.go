package web

import (
	"fmt"
	"net/http"

	"github.com/globalhsr/hsrdb/internal/logging"
)

// handleResetDatabase drops, recreates and reseeds every table, then
// returns to the home page.
func (s *Server) handleResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := s.service.ResetDatabase(r.Context()); err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError, "Error resetting database")
		return
	}
	logging.FromContext(r.Context()).Warn("database reset", "remote_addr", r.RemoteAddr)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// handleInitDB re-applies the procedure scripts and creates the tables if
// they are missing. Existing rows are kept.
func (s *Server) handleInitDB(w http.ResponseWriter, r *http.Request) {
	if s.scripts == nil {
		s.respondError(w, r, fmt.Errorf("no scripts configured"), http.StatusInternalServerError, "Database initialization failed")
		return
	}

	applied, err := s.service.ApplyScripts(r.Context(), s.scripts)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError, "Database initialization failed")
		return
	}

	logging.FromContext(r.Context()).Info("database initialized", "scripts", applied)
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "Database initialized successfully (%d scripts applied).\n", len(applied))
}
