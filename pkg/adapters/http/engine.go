package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"github.com/aretw0/listenbot/internal/logging"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/ports"
	"github.com/go-chi/chi/v5"
)

// DefaultSessionID is used when a request does not name a session.
const DefaultSessionID = "default"

// RespondRequest is the body of POST /respond.
type RespondRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Command   string `json:"command"`
}

// RespondResponse is the reply of POST /respond.
type RespondResponse struct {
	Text string `json:"text"`
}

// EnginePool keeps one engine per session, created on first use.
// Scripted engines carry per-session counters, so sessions must not share one.
type EnginePool struct {
	mu      sync.Mutex
	factory func() ports.ResponseEngine
	engines map[string]ports.ResponseEngine
}

// NewEnginePool creates a pool backed by factory.
func NewEnginePool(factory func() ports.ResponseEngine) *EnginePool {
	return &EnginePool{
		factory: factory,
		engines: make(map[string]ports.ResponseEngine),
	}
}

// Get returns the session's engine, creating it if needed.
func (p *EnginePool) Get(sessionID string) ports.ResponseEngine {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.engines[sessionID]
	if !ok {
		e = p.factory()
		p.engines[sessionID] = e
	}
	return e
}

// Release forgets the session's engine. It reports whether one existed.
func (p *EnginePool) Release(sessionID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.engines[sessionID]
	delete(p.engines, sessionID)
	return ok
}

// Len returns the number of live sessions.
func (p *EnginePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.engines)
}

type engineServer struct {
	pool   *EnginePool
	logger *slog.Logger
}

// NewEngineHandler serves a response engine over HTTP:
// POST /respond, DELETE /sessions/{id} and GET /healthz.
func NewEngineHandler(pool *EnginePool, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &engineServer{pool: pool, logger: logger}

	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, logger, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/respond", s.respond)
	r.Delete("/sessions/{id}", s.release)
	return r
}

func (s *engineServer) respond(w http.ResponseWriter, r *http.Request) {
	var body RespondRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("respond: invalid request body", "error", err)
		return
	}
	if body.Command == "" {
		http.Error(w, "Missing command", http.StatusBadRequest)
		return
	}
	if body.SessionID == "" {
		body.SessionID = DefaultSessionID
	}

	text, err := s.pool.Get(body.SessionID).Respond(r.Context(), body.Command)
	if err != nil {
		status := http.StatusInternalServerError
		if isClientError(err) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, fmt.Sprintf("Respond error: %v", err), status)
		s.logger.Warn("respond failed", "session_id", body.SessionID, "command", body.Command, "error", err)
		return
	}
	s.logger.Debug("respond", "session_id", body.SessionID, "command", body.Command)
	writeJSON(w, s.logger, http.StatusOK, RespondResponse{Text: text})
}

func (s *engineServer) release(w http.ResponseWriter, r *http.Request) {
	if !s.pool.Release(chi.URLParam(r, "id")) {
		http.Error(w, "Session not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrMalformedCommand) ||
		errors.Is(err, domain.ErrUnknownTopic) ||
		errors.Is(err, domain.ErrUnknownAction) ||
		errors.Is(err, domain.ErrUnknownFeedback)
}
