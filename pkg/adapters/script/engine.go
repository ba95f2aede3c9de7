package script

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/aretw0/listenbot/internal/logging"
	"github.com/aretw0/listenbot/pkg/domain"
)

var (
	// ErrNoText is returned when an ACTION command has no text in the script.
	ErrNoText = errors.New("no text for action")
	// ErrNoRule is returned when a FEEDBACK command has no rule in the script.
	ErrNoRule = errors.New("no rule for feedback")
)

// Engine answers commands from a Script. It keeps the per-session state a
// scripted engine needs: the current topic and how often each feedback was seen.
// Safe for concurrent use.
type Engine struct {
	script *Script
	logger *slog.Logger

	mu      sync.Mutex
	topic   domain.Topic
	seen    map[domain.Command]int
	outcome domain.Result
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine over a compiled script.
func NewEngine(s *Script, opts ...EngineOption) *Engine {
	e := &Engine{
		script: s,
		logger: logging.NewNop(),
		seen:   make(map[domain.Command]int),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Respond implements ports.ResponseEngine.
func (e *Engine) Respond(ctx context.Context, command string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if strings.HasPrefix(command, "EXEC ") {
		return "", e.exec(command)
	}

	cmd, err := domain.ParseCommand(command)
	if err != nil {
		return "", err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if cmd.IsAction() {
		text, ok := e.script.Text(cmd)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrNoText, command)
		}
		return text, nil
	}

	rule, ok := e.script.Rule(cmd)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNoRule, command)
	}
	n := e.seen[cmd]
	e.seen[cmd] = n + 1
	next := rule.Next[min(n, len(rule.Next)-1)]
	if rule.Result != domain.ResultNone {
		e.outcome = rule.Result
	}
	e.logger.Debug("script rule matched", "feedback", command, "occurrence", n+1, "next", next.String())
	return next.String(), nil
}

func (e *Engine) exec(command string) error {
	fields := strings.Fields(command)
	if len(fields) != 3 || fields[1] != "SWITCH" {
		return fmt.Errorf("%w: %q", domain.ErrMalformedCommand, command)
	}
	topic, err := domain.ParseTopic(fields[2])
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.topic = topic
	e.mu.Unlock()
	return nil
}

// Topic returns the last topic announced with EXEC SWITCH.
func (e *Engine) Topic() domain.Topic {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.topic
}

// Outcome returns the result tag of the last rule that carried one.
func (e *Engine) Outcome() (domain.Result, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.outcome, e.outcome != domain.ResultNone
}

// Reset forgets the session state so the engine can serve a new conversation.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.topic = domain.TopicNone
	e.seen = make(map[domain.Command]int)
	e.outcome = domain.ResultNone
}
