package controller

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/listenbot/internal/logging"
	"github.com/aretw0/listenbot/pkg/classifier"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/ports"
	"github.com/aretw0/listenbot/pkg/tracker"
)

// Status is the state of the conversation machine.
type Status string

const (
	StatusGreeting Status = "greeting"
	StatusActive   Status = "active"
	StatusStopped  Status = "stopped"
)

// Reply is what the robot says at the end of a turn.
type Reply struct {
	Command domain.Command
	Text    string
	// Repeat is set when the reply re-emits the previous robot text after an UNCLEAR reply.
	Repeat bool
	// Final is set when the reply carries the STOP action.
	Final bool
}

// Controller drives a single session. It is not safe for concurrent use.
type Controller struct {
	engine        ports.ResponseEngine
	tracker       *tracker.Tracker
	logger        *slog.Logger
	hooks         domain.LifecycleHooks
	engineTimeout time.Duration

	status       Status
	currentTopic domain.Topic
	last         Reply
	err          error
}

// New creates a controller in the GREETING state.
func New(engine ports.ResponseEngine, opts ...Option) *Controller {
	c := &Controller{
		engine: engine,
		logger: logging.NewNop(),
		status: StatusGreeting,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracker == nil {
		c.tracker = tracker.New()
	}
	return c
}

// Status returns the current machine state.
func (c *Controller) Status() Status {
	return c.status
}

// CurrentTopic returns the topic the session is on. TopicNone before Start.
func (c *Controller) CurrentTopic() domain.Topic {
	return c.currentTopic
}

// Tracker returns the session tracker.
func (c *Controller) Tracker() *tracker.Tracker {
	return c.tracker
}

// Err returns the error that stopped the session, if any.
func (c *Controller) Err() error {
	return c.err
}

// Start renders and records the greeting. Only valid in GREETING.
func (c *Controller) Start(ctx context.Context) (Reply, error) {
	switch c.status {
	case StatusStopped:
		return Reply{}, domain.ErrSessionStopped
	case StatusActive:
		return Reply{}, domain.ErrAlreadyStarted
	}

	if err := c.switchTopic(ctx, domain.TopicGreet); err != nil {
		return Reply{}, c.fail(ctx, err)
	}
	reply, err := c.act(ctx, domain.ActionCommand(domain.TopicGreet, domain.ActionIntro))
	if err != nil {
		return Reply{}, c.fail(ctx, err)
	}

	c.status = StatusActive
	c.logger.Debug("session started", "topic", c.currentTopic)
	return c.finish(ctx, reply), nil
}

// Handle runs one turn for a user reply. Only valid in ACTIVE.
func (c *Controller) Handle(ctx context.Context, text string) (Reply, error) {
	switch c.status {
	case StatusGreeting:
		return Reply{}, domain.ErrNotStarted
	case StatusStopped:
		return Reply{}, domain.ErrSessionStopped
	}

	feedback, err := classifier.Classify(text, c.currentTopic)
	if err != nil {
		return Reply{}, c.fail(ctx, fmt.Errorf("classify %q: %w", text, err))
	}
	if err := c.record(ctx, feedback, text, false); err != nil {
		return Reply{}, c.fail(ctx, err)
	}
	if err := c.switchTopic(ctx, feedback.Topic); err != nil {
		return Reply{}, c.fail(ctx, err)
	}

	if feedback.Feedback == domain.FeedbackUnclear {
		repeat := c.last
		repeat.Repeat = true
		if err := c.record(ctx, repeat.Command, repeat.Text, true); err != nil {
			return Reply{}, c.fail(ctx, err)
		}
		c.logger.Debug("repeating last action", "command", repeat.Command.String())
		return repeat, nil
	}

	raw, err := c.respond(ctx, feedback.String())
	if err != nil {
		return Reply{}, c.fail(ctx, err)
	}
	next, err := domain.ParseCommand(raw)
	if err != nil {
		return Reply{}, c.fail(ctx, fmt.Errorf("%w: reply %q to %q: %w", domain.ErrEngineUnavailable, raw, feedback, err))
	}
	if !next.IsAction() {
		return Reply{}, c.fail(ctx, fmt.Errorf("%w: reply %q to %q is not an ACTION", domain.ErrEngineUnavailable, raw, feedback))
	}
	if err := c.switchTopic(ctx, next.Topic); err != nil {
		return Reply{}, c.fail(ctx, err)
	}

	reply, err := c.act(ctx, next)
	if err != nil {
		return Reply{}, c.fail(ctx, err)
	}
	return c.finish(ctx, reply), nil
}

// Interrupt stops the session on user cancellation.
func (c *Controller) Interrupt(ctx context.Context) {
	if c.status == StatusStopped {
		return
	}
	c.stop(ctx, domain.StopInterrupted, nil)
}

// Abort stops the session with err when the surrounding I/O fails.
// It is a no-op once the session is stopped and always returns err.
func (c *Controller) Abort(ctx context.Context, err error) error {
	if c.status == StatusStopped {
		return err
	}
	return c.fail(ctx, err)
}

// act renders an ACTION command and records it.
func (c *Controller) act(ctx context.Context, cmd domain.Command) (Reply, error) {
	text, err := c.respond(ctx, cmd.String())
	if err != nil {
		return Reply{}, err
	}
	if err := c.record(ctx, cmd, text, false); err != nil {
		return Reply{}, err
	}
	return Reply{Command: cmd, Text: text, Final: cmd.Action.IsTerminal()}, nil
}

func (c *Controller) finish(ctx context.Context, reply Reply) Reply {
	c.last = reply
	if reply.Final {
		c.stop(ctx, domain.StopCompleted, nil)
	}
	return reply
}

func (c *Controller) record(ctx context.Context, cmd domain.Command, text string, repeat bool) error {
	if err := c.tracker.Update(cmd.String(), text, repeat); err != nil {
		return fmt.Errorf("track %q: %w", cmd, err)
	}
	if c.hooks.OnTurn != nil {
		c.hooks.OnTurn(ctx, &domain.TurnEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTurn},
			Command:   cmd,
			Text:      text,
			Repeat:    repeat,
		})
	}
	return nil
}

// switchTopic notifies the engine when the topic changes. The notification is not tracked.
func (c *Controller) switchTopic(ctx context.Context, to domain.Topic) error {
	if to == c.currentTopic {
		return nil
	}
	if _, err := c.respond(ctx, domain.SwitchCommand(to)); err != nil {
		return err
	}
	from := c.currentTopic
	c.currentTopic = to
	c.logger.Debug("topic switched", "from", from, "to", to)
	if c.hooks.OnTopicSwitch != nil {
		c.hooks.OnTopicSwitch(ctx, &domain.SwitchEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventTopicSwitch},
			From:      from,
			To:        to,
		})
	}
	return nil
}

func (c *Controller) respond(ctx context.Context, command string) (string, error) {
	if c.engineTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.engineTimeout)
		defer cancel()
	}

	start := time.Now()
	reply, err := c.engine.Respond(ctx, command)
	if c.hooks.OnEngineCall != nil {
		c.hooks.OnEngineCall(ctx, &domain.EngineEvent{
			EventBase: domain.EventBase{Timestamp: start, Type: domain.EventEngineCall},
			Command:   command,
			Reply:     reply,
			Duration:  time.Since(start),
			Err:       err,
		})
	}
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", domain.ErrEngineUnavailable, command, err)
	}
	return reply, nil
}

func (c *Controller) fail(ctx context.Context, err error) error {
	c.stop(ctx, domain.StopFailed, err)
	return err
}

func (c *Controller) stop(ctx context.Context, reason domain.StopReason, err error) {
	c.status = StatusStopped
	c.err = err
	if err != nil {
		c.logger.Error("session failed", "err", err, "turns", c.tracker.Turns())
	} else {
		c.logger.Debug("session stopped", "reason", reason, "turns", c.tracker.Turns())
	}
	if c.hooks.OnStop != nil {
		c.hooks.OnStop(ctx, &domain.StopEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventStop},
			Reason:    reason,
			Turns:     c.tracker.Turns(),
			Err:       err,
		})
	}
}
