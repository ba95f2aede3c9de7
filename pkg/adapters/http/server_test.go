package http

import (
	"bufio"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/listenbot/pkg/adapters/memory"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seededStore(t *testing.T) *memory.Store {
	t.Helper()
	store := memory.NewStore()
	tr := tracker.New()
	require.NoError(t, tr.Update("ACTION GREET INTRO", "Hello", false))
	require.NoError(t, tr.Update("FEEDBACK GREET POSITIVE", "GREET Y", false))
	require.NoError(t, store.Save(context.Background(), "sess-1", tr.State()))
	return store
}

func TestHandler_Health(t *testing.T) {
	handler := NewHandler(nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/info", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"app":"listenbot"`)
}

func TestHandler_Sessions(t *testing.T) {
	handler := NewHandler(seededStore(t))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"sessions":["sess-1"]}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/sess-1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var state tracker.State
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &state))
	assert.Equal(t, 1, state.Turns, "user feedback is not a turn")
	assert.Equal(t, domain.FeedbackPositive, state.FeedbackByTopic[domain.TopicGreet])

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/sess-1/dump", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "#TURNS: 1\n")
	assert.Contains(t, w.Body.String(), "FEEDBACK OF TOPICS: {GREET: POSITIVE}")

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/missing", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_NoStore(t *testing.T) {
	handler := NewHandler(nil)

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions", nil))
	assert.JSONEq(t, `{"sessions":[]}`, w.Body.String())

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sessions/x/dump", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_Metrics(t *testing.T) {
	metrics := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("listenbot_turns_total 3\n"))
	})
	handler := NewHandler(nil, WithMetrics(metrics))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "listenbot_turns_total 3")

	w = httptest.NewRecorder()
	NewHandler(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSubscribeEvents_Session(t *testing.T) {
	streams := NewStreamManager(nil)
	srv := httptest.NewServer(NewHandler(nil, WithStreams(streams)))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/sessions/sess-1/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := bufio.NewScanner(resp.Body)
	readData := func() string {
		for lines.Scan() {
			if line := lines.Text(); strings.HasPrefix(line, "data: ") {
				return strings.TrimPrefix(line, "data: ")
			}
		}
		return ""
	}
	require.Equal(t, "connected", readData())

	hooks := streams.Hooks("sess-1")
	hooks.OnTurn(ctx, &domain.TurnEvent{
		EventBase: domain.EventBase{Type: domain.EventTurn, Timestamp: time.Now()},
		Command:   domain.ActionCommand(domain.TopicPrice, domain.ActionIntro),
		Text:      "It costs 3 million.",
	})
	hooks.OnStop(ctx, &domain.StopEvent{
		EventBase: domain.EventBase{Type: domain.EventStop, Timestamp: time.Now()},
		Reason:    domain.StopCompleted,
		Turns:     7,
	})

	turn := readData()
	assert.Contains(t, turn, `"type":"turn"`)
	assert.Contains(t, turn, `"command":"ACTION PRICE INTRO"`)
	stop := readData()
	assert.Contains(t, stop, `"reason":"completed"`)
	assert.Contains(t, stop, `"turns":7`)
}

func TestStreamManager_OtherSessionsNotNotified(t *testing.T) {
	sm := NewStreamManager(nil)
	ch, unsubscribe := sm.Subscribe("a")

	sm.Broadcast("b", "hello")
	select {
	case msg := <-ch:
		t.Fatalf("unexpected message %q", msg)
	default:
	}

	sm.Broadcast("a", "hello")
	assert.Equal(t, "hello", <-ch)

	unsubscribe()
	unsubscribe()
	_, open := <-ch
	assert.False(t, open)
}
