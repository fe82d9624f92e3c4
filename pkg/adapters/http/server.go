package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/senglish"
	"github.com/aretw0/senglish/internal/logging"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/runner"
	"github.com/aretw0/senglish/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server exposes a session manager as a JSON API.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager
	Logger   *slog.Logger

	maxInput int
	metrics  http.Handler
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.Logger = logger
		}
	}
}

// WithMaxInputSize overrides the instruction size limit.
func WithMaxInputSize(limit int) Option {
	return func(s *Server) {
		s.maxInput = limit
	}
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewServer builds the Server and subscribes its stream to session diagnostics.
func NewServer(mgr *session.Manager, opts ...Option) *Server {
	s := &Server{
		Sessions: mgr,
		Streams:  NewStreamManager(),
		Logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	mgr.Observe(s.publish)
	return s
}

// NewHandler creates a new HTTP handler for the session manager.
func NewHandler(mgr *session.Manager, opts ...Option) http.Handler {
	return NewServer(mgr, opts...).Routes()
}

// Routes returns the router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Post("/cmd", s.Cmd)
			r.Post("/events", s.Trigger)
			r.Get("/tree", s.GetTree)
			r.Get("/state/{key}", s.GetState)
			r.Get("/stream", s.SubscribeEvents)
			r.Delete("/", s.DeleteSession)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CmdRequest is the body of POST /sessions/{id}/cmd.
type CmdRequest struct {
	Text string `json:"text"`
}

// CmdResponse reports a chain execution.
type CmdResponse struct {
	OK       bool             `json:"ok"`
	Outcomes []domain.Outcome `json:"outcomes"`
}

// EventRequest is the body of POST /sessions/{id}/events.
type EventRequest struct {
	Target string `json:"target"`
	Event  string `json:"event"`
	Value  string `json:"value,omitempty"`
}

// Cmd handles POST /sessions/{id}/cmd.
func (s *Server) Cmd(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body CmdRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Cmd: Invalid request body", "error", err)
		return
	}

	// Sanitize Input (Global Policy)
	text, err := runner.SanitizeInputLimit(body.Text, s.maxInput)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid input: %v", err), http.StatusBadRequest)
		s.Logger.Warn("Cmd: Input rejected", "error", err, "size", len(body.Text))
		return
	}

	report, err := s.Sessions.Cmd(r.Context(), id, text)
	if err != nil {
		s.fail(w, "Cmd", err)
		return
	}
	s.writeJSON(w, http.StatusOK, CmdResponse{OK: report.OK(), Outcomes: report.Outcomes})
}

// Trigger handles POST /sessions/{id}/events.
func (s *Server) Trigger(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body EventRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.Logger.Warn("Trigger: Invalid request body", "error", err)
		return
	}
	if body.Target == "" || body.Event == "" {
		http.Error(w, "target and event are required", http.StatusBadRequest)
		return
	}

	if err := s.Sessions.Trigger(r.Context(), id, body.Target, body.Event, body.Value); err != nil {
		s.fail(w, "Trigger", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTree handles GET /sessions/{id}/tree.
func (s *Server) GetTree(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Sessions.Inspect(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetTree", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// GetState handles GET /sessions/{id}/state/{key}.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	in, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "GetState", err)
		return
	}
	key := chi.URLParam(r, "key")
	value, err := in.State().Get(r.Context(), key)
	if err != nil {
		s.fail(w, "GetState", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"key": key, "value": value})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": s.Sessions.List()})
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "DeleteSession", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "senglish-http",
		"version": strings.TrimSpace(senglish.Version),
	})
}

// fail maps domain errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound), errors.Is(err, domain.ErrKeyNotFound), errors.Is(err, domain.ErrNotFound):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, domain.ErrClosed):
		http.Error(w, err.Error(), http.StatusGone)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
	default:
		http.Error(w, fmt.Sprintf("%s error: %v", op, err), http.StatusInternalServerError)
		s.Logger.Error(op+" failed", "error", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Logger.Error("response encode failed", "error", err)
	}
}
