package controller_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/listenbot/pkg/controller"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEngine renders ACTION commands as "say: <command>" and answers FEEDBACK
// commands from a script keyed by the feedback command.
type fakeEngine struct {
	next  map[string][]string
	calls []string
	fail  map[string]error
}

func newFakeEngine(next map[string][]string) *fakeEngine {
	return &fakeEngine{next: next, fail: map[string]error{}}
}

func (e *fakeEngine) Respond(ctx context.Context, command string) (string, error) {
	e.calls = append(e.calls, command)
	if err, ok := e.fail[command]; ok {
		return "", err
	}
	switch {
	case strings.HasPrefix(command, "EXEC SWITCH "):
		return "", nil
	case strings.HasPrefix(command, "ACTION "):
		return "say: " + command, nil
	}
	queue := e.next[command]
	if len(queue) == 0 {
		return "", errors.New("no rule for " + command)
	}
	e.next[command] = queue[1:]
	return queue[0], nil
}

func (e *fakeEngine) switches() []string {
	var out []string
	for _, c := range e.calls {
		if strings.HasPrefix(c, "EXEC SWITCH ") {
			out = append(out, c)
		}
	}
	return out
}

func TestController_Start(t *testing.T) {
	engine := newFakeEngine(nil)
	c := controller.New(engine)
	assert.Equal(t, controller.StatusGreeting, c.Status())

	reply, err := c.Start(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "ACTION GREET INTRO", reply.Command.String())
	assert.Equal(t, "say: ACTION GREET INTRO", reply.Text)
	assert.False(t, reply.Final)
	assert.Equal(t, controller.StatusActive, c.Status())
	assert.Equal(t, domain.TopicGreet, c.CurrentTopic())
	assert.Equal(t, 1, c.Tracker().Turns())
	assert.Equal(t, []string{"EXEC SWITCH GREET", "ACTION GREET INTRO"}, engine.calls)
}

func TestController_HandleBeforeStart(t *testing.T) {
	c := controller.New(newFakeEngine(nil))
	_, err := c.Handle(context.Background(), "PRICE Y")
	assert.ErrorIs(t, err, domain.ErrNotStarted)
}

func TestController_StartTwice(t *testing.T) {
	c := controller.New(newFakeEngine(nil))
	_, err := c.Start(context.Background())
	require.NoError(t, err)

	_, err = c.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrAlreadyStarted)
	assert.Equal(t, controller.StatusActive, c.Status(), "a second greeting does not end the session")
}

func TestController_PriceScenario(t *testing.T) {
	engine := newFakeEngine(map[string][]string{
		"FEEDBACK GREET POSITIVE": {"ACTION PRICE INTRO"},
		"FEEDBACK PRICE POSITIVE": {"ACTION PRICE ANSWER"},
	})
	c := controller.New(engine)
	ctx := context.Background()

	_, err := c.Start(ctx)
	require.NoError(t, err)

	// The greeting reply is always classified under GREET.
	reply, err := c.Handle(ctx, "PRICE Y")
	require.NoError(t, err)
	assert.Equal(t, "ACTION PRICE INTRO", reply.Command.String())
	assert.Equal(t, domain.TopicPrice, c.CurrentTopic())
	assert.Equal(t, 2, c.Tracker().Turns())

	reply, err = c.Handle(ctx, "PRICE Y")
	require.NoError(t, err)
	assert.Equal(t, "ACTION PRICE ANSWER", reply.Command.String())
	assert.Equal(t, "say: ACTION PRICE ANSWER", reply.Text)

	f, ok := c.Tracker().FeedbackFor(domain.TopicPrice)
	require.True(t, ok)
	assert.Equal(t, domain.FeedbackPositive, f)

	s := c.Tracker().State()
	assert.Equal(t, 3, s.Turns)
	assert.Equal(t, []string{"ACTION GREET INTRO", "ACTION PRICE INTRO", "ACTION PRICE ANSWER"}, s.ActionHistory)
	assert.Equal(t, []string{"FEEDBACK GREET POSITIVE", "FEEDBACK PRICE POSITIVE"}, s.FeedbackHistory)
	assert.Equal(t, []string{"EXEC SWITCH GREET", "EXEC SWITCH PRICE"}, engine.switches())
	assert.Equal(t, controller.StatusActive, c.Status())
}

func TestController_UserTopicSwitch(t *testing.T) {
	engine := newFakeEngine(map[string][]string{
		"FEEDBACK GREET POSITIVE":    {"ACTION PRICE INTRO"},
		"FEEDBACK LOCATION NEGATIVE": {"ACTION LOCATION FIRST_REDEEM"},
	})
	c := controller.New(engine)
	ctx := context.Background()
	_, err := c.Start(ctx)
	require.NoError(t, err)
	_, err = c.Handle(ctx, "GREET Y")
	require.NoError(t, err)

	engine.calls = nil
	reply, err := c.Handle(ctx, "LOCATION N")
	require.NoError(t, err)

	assert.Equal(t, "ACTION LOCATION FIRST_REDEEM", reply.Command.String())
	assert.Equal(t, domain.TopicLocation, c.CurrentTopic())
	assert.Equal(t, []string{
		"EXEC SWITCH LOCATION",
		"FEEDBACK LOCATION NEGATIVE",
		"ACTION LOCATION FIRST_REDEEM",
	}, engine.calls)
	assert.Equal(t, 1, c.Tracker().RedeemsFor(domain.TopicLocation))
}

func TestController_UnclearRepeatsWithoutEngineTurn(t *testing.T) {
	engine := newFakeEngine(map[string][]string{
		"FEEDBACK GREET POSITIVE": {"ACTION PRICE INTRO"},
		"FEEDBACK PRICE NEGATIVE": {"ACTION PRICE FIRST_REDEEM"},
	})
	c := controller.New(engine)
	ctx := context.Background()
	_, err := c.Start(ctx)
	require.NoError(t, err)
	_, err = c.Handle(ctx, "GREET Y")
	require.NoError(t, err)
	redeem, err := c.Handle(ctx, "PRICE N")
	require.NoError(t, err)
	require.Equal(t, 1, c.Tracker().RedeemsFor(domain.TopicPrice))

	turns := c.Tracker().Turns()
	engine.calls = nil

	reply, err := c.Handle(ctx, "PRICE ?")
	require.NoError(t, err)

	assert.True(t, reply.Repeat)
	assert.Equal(t, redeem.Text, reply.Text)
	assert.Equal(t, redeem.Command, reply.Command)
	assert.Empty(t, engine.calls, "an UNCLEAR reply must not reach the engine")
	assert.Equal(t, turns+1, c.Tracker().Turns())
	assert.Equal(t, 1, c.Tracker().RedeemsFor(domain.TopicPrice), "repeats never count as redeem attempts")

	s := c.Tracker().State()
	assert.Equal(t, "ACTION PRICE FIRST_REDEEM", s.ActionHistory[len(s.ActionHistory)-1])
	assert.Equal(t, "FEEDBACK PRICE UNCLEAR", s.FeedbackHistory[len(s.FeedbackHistory)-1])
	f, _ := c.Tracker().FeedbackFor(domain.TopicPrice)
	assert.Equal(t, domain.FeedbackNegative, f)
	assert.Equal(t, controller.StatusActive, c.Status())
}

func TestController_UnclearOnOtherTopicStillSwitches(t *testing.T) {
	engine := newFakeEngine(map[string][]string{
		"FEEDBACK GREET POSITIVE": {"ACTION PRICE INTRO"},
	})
	c := controller.New(engine)
	ctx := context.Background()
	_, err := c.Start(ctx)
	require.NoError(t, err)
	_, err = c.Handle(ctx, "GREET Y")
	require.NoError(t, err)

	engine.calls = nil
	reply, err := c.Handle(ctx, "LOCATION ?")
	require.NoError(t, err)

	assert.True(t, reply.Repeat)
	assert.Equal(t, "ACTION PRICE INTRO", reply.Command.String())
	assert.Equal(t, []string{"EXEC SWITCH LOCATION"}, engine.calls)
	assert.Equal(t, domain.TopicLocation, c.CurrentTopic())
}

func TestController_StopEndsSession(t *testing.T) {
	engine := newFakeEngine(map[string][]string{
		"FEEDBACK GREET NEGATIVE": {"ACTION GREET FIRST_REDEEM", "ACTION RESULT STOP"},
	})
	var stops []*domain.StopEvent
	c := controller.New(engine, controller.WithLifecycleHooks(domain.LifecycleHooks{
		OnStop: func(ctx context.Context, e *domain.StopEvent) { stops = append(stops, e) },
	}))
	ctx := context.Background()
	_, err := c.Start(ctx)
	require.NoError(t, err)

	reply, err := c.Handle(ctx, "GREET N")
	require.NoError(t, err)
	assert.False(t, reply.Final)

	reply, err = c.Handle(ctx, "GREET N")
	require.NoError(t, err)
	assert.True(t, reply.Final)
	assert.Equal(t, "say: ACTION RESULT STOP", reply.Text)
	assert.Equal(t, controller.StatusStopped, c.Status())

	s := c.Tracker().State()
	assert.Equal(t, "ACTION RESULT STOP", s.ActionHistory[len(s.ActionHistory)-1])
	assert.Equal(t, 3, s.Turns)

	require.Len(t, stops, 1)
	assert.Equal(t, domain.StopCompleted, stops[0].Reason)
	assert.Equal(t, 3, stops[0].Turns)

	_, err = c.Handle(ctx, "GREET Y")
	assert.ErrorIs(t, err, domain.ErrSessionStopped)
}

func TestController_ClassificationErrorIsFatal(t *testing.T) {
	engine := newFakeEngine(map[string][]string{
		"FEEDBACK GREET POSITIVE": {"ACTION PRICE INTRO"},
	})
	c := controller.New(engine)
	ctx := context.Background()
	_, err := c.Start(ctx)
	require.NoError(t, err)
	_, err = c.Handle(ctx, "GREET Y")
	require.NoError(t, err)
	before := c.Tracker().State()

	_, err = c.Handle(ctx, "how much is it?")
	assert.ErrorIs(t, err, domain.ErrUnknownTopic)
	assert.Equal(t, controller.StatusStopped, c.Status())
	assert.ErrorIs(t, c.Err(), domain.ErrUnknownTopic)
	assert.Equal(t, before, c.Tracker().State(), "a rejected reply leaves no trace")
}

func TestController_BadFeedbackTokenIsFatal(t *testing.T) {
	c := controller.New(newFakeEngine(nil))
	ctx := context.Background()
	_, err := c.Start(ctx)
	require.NoError(t, err)

	_, err = c.Handle(ctx, "GREET maybe")
	assert.ErrorIs(t, err, domain.ErrUnknownFeedbackToken)
	assert.Equal(t, controller.StatusStopped, c.Status())
}

func TestController_MalformedEngineReplyIsFatal(t *testing.T) {
	tests := map[string]string{
		"too few tokens": "ACTION PRICE",
		"unknown topic":  "ACTION PARKING INTRO",
		"not an action":  "FEEDBACK PRICE POSITIVE",
	}
	for name, raw := range tests {
		t.Run(name, func(t *testing.T) {
			engine := newFakeEngine(map[string][]string{
				"FEEDBACK GREET POSITIVE": {raw},
			})
			c := controller.New(engine)
			ctx := context.Background()
			_, err := c.Start(ctx)
			require.NoError(t, err)

			_, err = c.Handle(ctx, "GREET Y")
			assert.ErrorIs(t, err, domain.ErrEngineUnavailable)
			assert.Equal(t, controller.StatusStopped, c.Status())
			assert.Equal(t, 1, c.Tracker().Turns())
		})
	}
}

func TestController_EngineFailureOnGreeting(t *testing.T) {
	engine := newFakeEngine(nil)
	engine.fail["ACTION GREET INTRO"] = errors.New("connection refused")
	c := controller.New(engine)

	_, err := c.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrEngineUnavailable)
	assert.Equal(t, controller.StatusStopped, c.Status())
	assert.Equal(t, 0, c.Tracker().Turns())
}

func TestController_EngineTimeout(t *testing.T) {
	slow := engineFunc(func(ctx context.Context, command string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	c := controller.New(slow, controller.WithEngineTimeout(10*time.Millisecond))

	_, err := c.Start(context.Background())
	assert.ErrorIs(t, err, domain.ErrEngineUnavailable)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestController_Interrupt(t *testing.T) {
	var reasons []domain.StopReason
	c := controller.New(newFakeEngine(nil), controller.WithLifecycleHooks(domain.LifecycleHooks{
		OnStop: func(ctx context.Context, e *domain.StopEvent) { reasons = append(reasons, e.Reason) },
	}))
	ctx := context.Background()
	_, err := c.Start(ctx)
	require.NoError(t, err)

	c.Interrupt(ctx)
	c.Interrupt(ctx)

	assert.Equal(t, controller.StatusStopped, c.Status())
	assert.Equal(t, []domain.StopReason{domain.StopInterrupted}, reasons)
	_, err = c.Handle(ctx, "GREET Y")
	assert.ErrorIs(t, err, domain.ErrSessionStopped)
}

func TestController_Abort(t *testing.T) {
	var stops []*domain.StopEvent
	c := controller.New(newFakeEngine(nil), controller.WithLifecycleHooks(domain.LifecycleHooks{
		OnStop: func(ctx context.Context, e *domain.StopEvent) { stops = append(stops, e) },
	}))
	ctx := context.Background()
	_, err := c.Start(ctx)
	require.NoError(t, err)

	broken := errors.New("broken pipe")
	assert.Equal(t, broken, c.Abort(ctx, broken))
	second := errors.New("second")
	assert.Equal(t, second, c.Abort(ctx, second), "abort after stop returns its argument")

	assert.Equal(t, controller.StatusStopped, c.Status())
	assert.Equal(t, broken, c.Err())
	require.Len(t, stops, 1)
	assert.Equal(t, domain.StopFailed, stops[0].Reason)
	assert.Equal(t, 1, stops[0].Turns)
}

func TestController_Hooks(t *testing.T) {
	engine := newFakeEngine(map[string][]string{
		"FEEDBACK GREET POSITIVE": {"ACTION PRICE INTRO"},
	})
	var turns []string
	var switches []domain.Topic
	var engineCalls int
	c := controller.New(engine, controller.WithLifecycleHooks(domain.LifecycleHooks{
		OnTurn:        func(ctx context.Context, e *domain.TurnEvent) { turns = append(turns, e.Command.String()) },
		OnTopicSwitch: func(ctx context.Context, e *domain.SwitchEvent) { switches = append(switches, e.To) },
		OnEngineCall:  func(ctx context.Context, e *domain.EngineEvent) { engineCalls++ },
	}))
	ctx := context.Background()
	_, err := c.Start(ctx)
	require.NoError(t, err)
	_, err = c.Handle(ctx, "GREET Y")
	require.NoError(t, err)

	assert.Equal(t, []string{"ACTION GREET INTRO", "FEEDBACK GREET POSITIVE", "ACTION PRICE INTRO"}, turns)
	assert.Equal(t, []domain.Topic{domain.TopicGreet, domain.TopicPrice}, switches)
	assert.Equal(t, len(engine.calls), engineCalls)
}

type engineFunc func(ctx context.Context, command string) (string, error)

func (f engineFunc) Respond(ctx context.Context, command string) (string, error) {
	return f(ctx, command)
}
