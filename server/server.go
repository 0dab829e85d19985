// Package server exposes the calendar engine over HTTP.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/camgitt/grace-crm-sub003/export"
	"github.com/camgitt/grace-crm-sub003/storage"
)

// Config configures the HTTP server.
type Config struct {
	Store storage.Store
	// Owner is the congregation's display name, feeding export UIDs and
	// the download filename.
	Owner string
	// CalendarName is the display name embedded in exported documents.
	CalendarName string
	// UpcomingDays is the default projection window.
	UpcomingDays int
	Logger       *slog.Logger
	// Now is the reference clock, injectable for tests. Defaults to
	// time.Now.
	Now func() time.Time
}

// Server routes calendar engine requests.
type Server struct {
	store    storage.Store
	owner    string
	calName  string
	window   int
	logger   *slog.Logger
	now      func() time.Time
	exporter *export.Exporter
	router   *mux.Router
}

// New creates a Server with the given configuration.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.UpcomingDays <= 0 {
		cfg.UpcomingDays = 30
	}

	s := &Server{
		store:    cfg.Store,
		owner:    cfg.Owner,
		calName:  cfg.CalendarName,
		window:   cfg.UpcomingDays,
		logger:   cfg.Logger,
		now:      cfg.Now,
		exporter: &export.Exporter{Owner: cfg.Owner, Now: cfg.Now},
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.logger.Info("received request",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", s.handleHealth).Methods("GET")

	api.HandleFunc("/calendar/{year:[0-9]+}/{month:[0-9]+}", s.handleMonthGrid).Methods("GET")
	api.HandleFunc("/calendar/upcoming", s.handleUpcoming).Methods("GET")
	api.HandleFunc("/calendar/export", s.handleExport).Methods("GET")

	api.HandleFunc("/events/{id}/links/{provider}", s.handleEventLink).Methods("GET")
	api.HandleFunc("/events/{id}/rsvp", s.handleRSVPSummary).Methods("GET")
	api.HandleFunc("/events/{id}/rsvp", s.handleRSVPSubmit).Methods("POST")

	api.HandleFunc("/tasks/{id}/complete", s.handleTaskComplete).Methods("POST")
	api.HandleFunc("/tasks/{id}/chain", s.handleTaskChain).Methods("GET")

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, storage.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, storage.ErrInvalidInput):
		status = http.StatusBadRequest
	}
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
