// Package http exposes sessions and the scripted engine over HTTP.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aretw0/listenbot"
	"github.com/aretw0/listenbot/internal/logging"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/ports"
	"github.com/aretw0/listenbot/pkg/tracker"
	"github.com/go-chi/chi/v5"
)

// Server serves read-only views of exported session snapshots.
type Server struct {
	Store   ports.StateStore
	Streams *StreamManager
	Metrics http.Handler
	Logger  *slog.Logger
}

// ServerOption configures the inspection server.
type ServerOption func(*Server)

// WithMetrics mounts a handler (usually promhttp) on GET /metrics.
func WithMetrics(h http.Handler) ServerOption {
	return func(s *Server) {
		s.Metrics = h
	}
}

// WithStreams enables GET /sessions/{id}/events.
func WithStreams(sm *StreamManager) ServerOption {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the inspection handler over a snapshot store.
func NewHandler(store ports.StateStore, opts ...ServerOption) http.Handler {
	s := &Server{
		Store:  store,
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/healthz", s.GetHealth)
	r.Get("/info", s.GetInfo)
	if s.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.Metrics)
	}
	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Get("/{id}", s.GetSession)
		r.Get("/{id}/dump", s.DumpSession)
		if s.Streams != nil {
			r.Get("/{id}/events", s.SubscribeEvents)
		}
	})
	return enableCORS(r)
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

// GetHealth handles GET /healthz.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.Logger, http.StatusOK, map[string]string{
		"app":     "listenbot",
		"version": strings.TrimSpace(listenbot.Version),
	})
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	if s.Store == nil {
		writeJSON(w, s.Logger, http.StatusOK, map[string][]string{"sessions": {}})
		return
	}
	ids, err := s.Store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("list sessions failed", "error", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	writeJSON(w, s.Logger, http.StatusOK, map[string][]string{"sessions": ids})
}

// GetSession handles GET /sessions/{id} with the JSON snapshot.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	writeJSON(w, s.Logger, http.StatusOK, state)
}

// DumpSession handles GET /sessions/{id}/dump with the PRINT text.
func (s *Server) DumpSession(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, state.String())
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*tracker.State, bool) {
	id := chi.URLParam(r, "id")
	if s.Store == nil {
		http.Error(w, "Session not found", http.StatusNotFound)
		return nil, false
	}
	st, err := s.Store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			http.Error(w, "Session not found", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.Logger.Error("load session failed", "session_id", id, "error", err)
		return nil, false
	}
	return st, true
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "error", err)
	}
}
