package controller

import (
	"log/slog"
	"time"

	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/tracker"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Controller) {
		c.hooks = hooks
	}
}

// WithTracker injects the session tracker. By default a fresh one is created.
func WithTracker(t *tracker.Tracker) Option {
	return func(c *Controller) {
		c.tracker = t
	}
}

// WithEngineTimeout bounds every response engine call. Zero disables the bound.
func WithEngineTimeout(d time.Duration) Option {
	return func(c *Controller) {
		c.engineTimeout = d
	}
}
