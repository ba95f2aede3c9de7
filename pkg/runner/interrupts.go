package runner

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// InterruptSignals are the signals that interrupt a session.
var InterruptSignals = []os.Signal{os.Interrupt, syscall.SIGTERM}

// settleDelay is how long an input error waits for a signal that may be in flight.
const settleDelay = 100 * time.Millisecond

// SignalError is the cancellation cause of a session interrupted by an OS signal.
type SignalError struct {
	Signal os.Signal
}

func (e *SignalError) Error() string {
	return "interrupted by " + e.Signal.String()
}

// InterruptSignal returns the signal that interrupted ctx, or nil.
func InterruptSignal(ctx context.Context) os.Signal {
	var se *SignalError
	if errors.As(context.Cause(ctx), &se) {
		return se.Signal
	}
	return nil
}

// WatchInterrupts returns a context cancelled with parent or on one of
// InterruptSignals. Call stop to release the signal handler.
func WatchInterrupts(parent context.Context) (ctx context.Context, stop func()) {
	w := watchInterrupts(parent, InterruptSignals...)
	return w.ctx, w.stop
}

// interrupts derives the session context. It is cancelled with its parent or,
// when signals are given, on the first of them, with a *SignalError cause.
type interrupts struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	ch     chan os.Signal
}

func watchInterrupts(parent context.Context, signals ...os.Signal) *interrupts {
	ctx, cancel := context.WithCancelCause(parent)
	w := &interrupts{ctx: ctx, cancel: cancel}
	if len(signals) == 0 {
		return w
	}

	w.ch = make(chan os.Signal, 1)
	signal.Notify(w.ch, signals...)
	go func() {
		select {
		case sig := <-w.ch:
			cancel(&SignalError{Signal: sig})
		case <-ctx.Done():
		}
	}()
	return w
}

// settle gives a pending signal a moment to land. Some terminals deliver EOF
// or a read error on ctrl-c slightly before the signal itself.
func (w *interrupts) settle() {
	if w.ch == nil || w.ctx.Err() != nil {
		return
	}
	select {
	case <-w.ctx.Done():
	case <-time.After(settleDelay):
	}
}

func (w *interrupts) stop() {
	if w.ch != nil {
		signal.Stop(w.ch)
	}
	w.cancel(nil)
}
