package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/listenbot/pkg/domain"
)

// Merge combines hooks; each callback runs the non-nil callbacks of every input in order.
func Merge(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var merged domain.LifecycleHooks
	for _, h := range all {
		merged.OnTurn = chain(merged.OnTurn, h.OnTurn)
		merged.OnTopicSwitch = chain(merged.OnTopicSwitch, h.OnTopicSwitch)
		merged.OnEngineCall = chain(merged.OnEngineCall, h.OnEngineCall)
		merged.OnStop = chain(merged.OnStop, h.OnStop)
	}
	return merged
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}

// LogHooks logs every lifecycle event at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTurn: func(ctx context.Context, e *domain.TurnEvent) {
			logger.DebugContext(ctx, "turn", "command", e.Command.String(), "repeat", e.Repeat)
		},
		OnTopicSwitch: func(ctx context.Context, e *domain.SwitchEvent) {
			logger.DebugContext(ctx, "topic switch", "from", e.From, "to", e.To)
		},
		OnEngineCall: func(ctx context.Context, e *domain.EngineEvent) {
			if e.Err != nil {
				logger.DebugContext(ctx, "engine call (error)", "command", e.Command, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "engine call", "command", e.Command, "duration", e.Duration)
		},
		OnStop: func(ctx context.Context, e *domain.StopEvent) {
			logger.InfoContext(ctx, "session stopped", "reason", e.Reason, "turns", e.Turns)
		},
	}
}
