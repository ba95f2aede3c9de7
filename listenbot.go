package listenbot

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/listenbot/pkg/adapters/script"
	"github.com/aretw0/listenbot/pkg/controller"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/ports"
	"github.com/aretw0/listenbot/pkg/runner"
	"github.com/aretw0/listenbot/pkg/tracker"
)

// Bot is the high-level entry point for one scripted call.
// It wires the script engine, the controller and the runner together.
type Bot struct {
	Name string

	script     *script.Script
	engine     *script.Engine
	controller *controller.Controller

	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	timeout   time.Duration
	store     ports.StateStore
	sessionID string
	handler   runner.IOHandler
}

// Option defines a functional option for configuring the Bot.
type Option func(*Bot)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(b *Bot) {
		b.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine and controller.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Bot) {
		b.logger = logger
	}
}

// WithScript injects a compiled script, bypassing the built-in lookup.
// The industry passed to New then only labels the bot.
func WithScript(s *script.Script) Option {
	return func(b *Bot) {
		b.script = s
	}
}

// WithEngineTimeout bounds every call to the response engine.
func WithEngineTimeout(d time.Duration) Option {
	return func(b *Bot) {
		b.timeout = d
	}
}

// WithStore exports a tracker snapshot to store after every turn of Run.
func WithStore(store ports.StateStore, sessionID string) Option {
	return func(b *Bot) {
		b.store = store
		b.sessionID = sessionID
	}
}

// WithIO makes Run read replies from in and print to out.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(b *Bot) {
		b.handler = runner.NewTextHandler(out, runner.WithInputReader(in))
	}
}

// WithInputHandler sets the IO strategy used by Run.
func WithInputHandler(h runner.IOHandler) Option {
	return func(b *Bot) {
		b.handler = h
	}
}

// New builds a Bot for a built-in industry script such as "house".
func New(industry string, opts ...Option) (*Bot, error) {
	b := &Bot{Name: industry}
	for _, opt := range opts {
		opt(b)
	}

	if b.script == nil {
		if industry == "" {
			return nil, fmt.Errorf("industry is required when no script is provided")
		}
		s, err := script.Builtin(industry)
		if err != nil {
			return nil, err
		}
		b.script = s
	}
	if err := b.script.Validate(); err != nil {
		return nil, fmt.Errorf("script %q is invalid: %w", b.script.Name, err)
	}
	if b.Name == "" {
		b.Name = b.script.Name
	}

	if b.logger == nil {
		b.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}
	b.logger = b.logger.With("script", b.Name)

	b.engine = script.NewEngine(b.script, script.WithLogger(b.logger))
	ctrlOpts := []controller.Option{
		controller.WithLogger(b.logger),
		controller.WithLifecycleHooks(b.hooks),
	}
	if b.timeout > 0 {
		ctrlOpts = append(ctrlOpts, controller.WithEngineTimeout(b.timeout))
	}
	b.controller = controller.New(b.engine, ctrlOpts...)
	return b, nil
}

// Start greets the customer.
func (b *Bot) Start(ctx context.Context) (controller.Reply, error) {
	return b.controller.Start(ctx)
}

// Handle processes one user reply.
func (b *Bot) Handle(ctx context.Context, text string) (controller.Reply, error) {
	return b.controller.Handle(ctx, text)
}

// Run drives the whole call over the configured IO until STOP, interrupt
// or end of input.
func (b *Bot) Run(ctx context.Context) error {
	opts := []runner.Option{
		runner.WithLogger(b.logger),
		runner.WithSessionID(b.sessionID),
	}
	if b.handler != nil {
		opts = append(opts, runner.WithInputHandler(b.handler))
	}
	if b.store != nil {
		opts = append(opts, runner.WithStore(b.store))
	}
	return runner.NewRunner(opts...).Run(ctx, b.controller)
}

// Controller exposes the underlying state machine.
func (b *Bot) Controller() *controller.Controller {
	return b.controller
}

// Tracker returns the Session State of the call.
func (b *Bot) Tracker() *tracker.Tracker {
	return b.controller.Tracker()
}

// Outcome reports the result tagged by the script, if the call reached one.
func (b *Bot) Outcome() (domain.Result, bool) {
	return b.engine.Outcome()
}
