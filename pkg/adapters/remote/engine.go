// Package remote talks to a response engine served over HTTP.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aretw0/listenbot/pkg/domain"
)

// DefaultTimeout bounds a single engine call.
const DefaultTimeout = 5 * time.Second

// Engine implements ports.ResponseEngine over HTTP.
// Every failure wraps domain.ErrEngineUnavailable.
type Engine struct {
	baseURL   string
	sessionID string
	client    *http.Client
}

// Option configures the remote engine.
type Option func(*Engine)

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Engine) {
		e.client = c
	}
}

// WithTimeout sets the per-call timeout of the default client.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.client.Timeout = d
		}
	}
}

// WithSessionID names the session on the server so its state is kept apart.
func WithSessionID(id string) Option {
	return func(e *Engine) {
		e.sessionID = id
	}
}

// New creates a remote engine for baseURL.
func New(baseURL string, opts ...Option) (*Engine, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid engine url %q", baseURL)
	}
	e := &Engine{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

type respondRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Command   string `json:"command"`
}

type respondResponse struct {
	Text string `json:"text"`
}

// Respond posts the command to <url>/respond.
func (e *Engine) Respond(ctx context.Context, command string) (string, error) {
	body, err := json.Marshal(respondRequest{SessionID: e.sessionID, Command: command})
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/respond", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: status %d: %s", domain.ErrEngineUnavailable, resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var out respondResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("%w: decode reply: %w", domain.ErrEngineUnavailable, err)
	}
	return out.Text, nil
}

// Close releases the session on the server. Errors are returned but harmless.
func (e *Engine) Close(ctx context.Context) error {
	if e.sessionID == "" {
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, e.baseURL+"/sessions/"+url.PathEscape(e.sessionID), nil)
	if err != nil {
		return err
	}
	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrEngineUnavailable, err)
	}
	resp.Body.Close()
	return nil
}
