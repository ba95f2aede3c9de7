package http

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/aretw0/listenbot/internal/logging"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/go-chi/chi/v5"
)

// StreamManager fans session events out to SSE subscribers.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[string]map[chan<- string]struct{} // SessionID -> Set of Channels
	logger      *slog.Logger
}

// NewStreamManager creates an empty manager.
func NewStreamManager(logger *slog.Logger) *StreamManager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &StreamManager{
		subscribers: make(map[string]map[chan<- string]struct{}),
		logger:      logger,
	}
}

// Subscribe registers a buffered channel for a session. The returned func
// unsubscribes and closes the channel.
func (sm *StreamManager) Subscribe(sessionID string) (chan string, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan string, 10)
	if _, ok := sm.subscribers[sessionID]; !ok {
		sm.subscribers[sessionID] = make(map[chan<- string]struct{})
	}
	sm.subscribers[sessionID][ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if subs, ok := sm.subscribers[sessionID]; ok {
			if _, ok := subs[ch]; !ok {
				return
			}
			delete(subs, ch)
			close(ch)
			if len(subs) == 0 {
				delete(sm.subscribers, sessionID)
			}
		}
	}
}

// Broadcast sends msg to every subscriber of the session. Slow clients drop messages.
func (sm *StreamManager) Broadcast(sessionID string, msg string) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping message", "session_id", sessionID)
		}
	}
}

type streamEvent struct {
	Type      domain.EventType  `json:"type"`
	Timestamp time.Time         `json:"timestamp"`
	Command   string            `json:"command,omitempty"`
	Text      string            `json:"text,omitempty"`
	Repeat    bool              `json:"repeat,omitempty"`
	From      string            `json:"from,omitempty"`
	To        string            `json:"to,omitempty"`
	Reason    domain.StopReason `json:"reason,omitempty"`
	Turns     int               `json:"turns,omitempty"`
	Error     string            `json:"error,omitempty"`
}

func (sm *StreamManager) publish(sessionID string, ev streamEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		sm.logger.Error("SSE: encode event failed", "error", err)
		return
	}
	sm.Broadcast(sessionID, string(b))
}

// Hooks returns lifecycle hooks that publish a session's turns, topic
// switches and stop to its subscribers.
func (sm *StreamManager) Hooks(sessionID string) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(_ context.Context, e *domain.TurnEvent) {
			sm.publish(sessionID, streamEvent{
				Type:      e.Type,
				Timestamp: e.Timestamp,
				Command:   e.Command.String(),
				Text:      e.Text,
				Repeat:    e.Repeat,
			})
		},
		OnTopicSwitch: func(_ context.Context, e *domain.SwitchEvent) {
			sm.publish(sessionID, streamEvent{
				Type:      e.Type,
				Timestamp: e.Timestamp,
				From:      e.From.String(),
				To:        e.To.String(),
			})
		},
		OnStop: func(_ context.Context, e *domain.StopEvent) {
			ev := streamEvent{
				Type:      e.Type,
				Timestamp: e.Timestamp,
				Reason:    e.Reason,
				Turns:     e.Turns,
			}
			if e.Err != nil {
				ev.Error = e.Err.Error()
			}
			sm.publish(sessionID, ev)
		},
	}
}

// SubscribeEvents handles GET /sessions/{id}/events (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}
	sessionID := chi.URLParam(r, "id")

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()
	s.Logger.Info("SSE: client subscribed", "session_id", sessionID)

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.Logger.Info("SSE: client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}
