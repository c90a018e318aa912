package web

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/globalhsr/hsrdb/internal/core/coretest"
	"github.com/globalhsr/hsrdb/internal/logging"
)

func TestRespondError_LogsRequestIDOnce(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(logging.New(&buf, "info", "text"))
	t.Cleanup(func() { slog.SetDefault(prev) })

	s := newTestServer(t, coretest.New(), nil)

	req := httptest.NewRequest(http.MethodGet, "/countries", nil)
	req = req.WithContext(context.WithValue(req.Context(), chimw.RequestIDKey, "req-42"))
	rec := httptest.NewRecorder()

	s.respondError(rec, req, errors.New("boom"), http.StatusInternalServerError, "Error loading countries")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	line := buf.String()
	if n := strings.Count(line, "request_id="); n != 1 {
		t.Errorf("request_id appears %d times in %q", n, line)
	}
	if !strings.Contains(line, "request_id=req-42") {
		t.Errorf("log line missing request id: %q", line)
	}
}

func TestRespondError_PartialFragment(t *testing.T) {
	s := newTestServer(t, coretest.New(), nil)

	req := httptest.NewRequest(http.MethodGet, "/countries", nil)
	req.Header.Set("X-Partial", "true")
	rec := httptest.NewRecorder()

	s.respondError(rec, req, errors.New("boom"), http.StatusBadRequest, "Bad Request")

	body := rec.Body.String()
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(body, `role="alert"`) || strings.Contains(body, "boom") {
		t.Errorf("body = %q", body)
	}
}
