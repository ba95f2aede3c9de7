package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/listenbot/internal/logging"
	"github.com/aretw0/listenbot/pkg/controller"
	"github.com/aretw0/listenbot/pkg/ports"
)

// Inputs handled by the runner instead of the controller.
const (
	CommandPrint = "PRINT"
	CommandExit  = "exit"
	CommandQuit  = "quit"
)

// Messages printed when a session ends without a STOP.
const (
	MessageInterrupted = "Interrupted!"
	MessageTerminated  = "Terminated!"
)

// Runner handles the read-eval loop of a session using provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. If nil, a TextHandler on Stdin/Stdout is used.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store receives a tracker snapshot after every turn. Optional.
	Store     ports.StateStore
	SessionID string

	// Renderer is applied to robot text by the default TextHandler.
	Renderer ContentRenderer

	// Signals makes Run cancel on SIGINT/SIGTERM.
	Signals bool
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drives ctrl from the greeting until the robot says STOP, the input ends
// or ctx is cancelled. Interrupts and end of input are clean exits and return nil.
// A failed turn or a broken handler stops the controller and returns the error.
func (r *Runner) Run(ctx context.Context, ctrl *controller.Controller) error {
	handler := r.resolveHandler()

	var sigs []os.Signal
	if r.Signals {
		sigs = InterruptSignals
	}
	watch := watchInterrupts(ctx, sigs...)
	defer watch.stop()
	runCtx := watch.ctx

	reply, err := ctrl.Start(runCtx)
	if err != nil {
		if runCtx.Err() != nil {
			return r.end(runCtx, ctrl, handler, MessageInterrupted)
		}
		r.export(context.WithoutCancel(runCtx), ctrl)
		return fmt.Errorf("start failed: %w", err)
	}
	if err := r.emit(runCtx, ctrl, handler, reply); err != nil {
		return err
	}

	for !reply.Final {
		text, err := handler.Input(runCtx)
		if err != nil {
			watch.settle()
			if runCtx.Err() != nil {
				r.Logger.Debug("runner input: context cancelled", "err", runCtx.Err())
				return r.end(runCtx, ctrl, handler, MessageInterrupted)
			}
			if errors.Is(err, io.EOF) {
				return r.end(runCtx, ctrl, handler, MessageTerminated)
			}
			return r.abort(runCtx, ctrl, fmt.Errorf("input error: %w", err))
		}

		switch strings.TrimSpace(text) {
		case "":
			continue
		case CommandPrint:
			if err := handler.SystemOutput(runCtx, ctrl.Tracker().String()); err != nil {
				return r.abort(runCtx, ctrl, fmt.Errorf("output error: %w", err))
			}
			continue
		case CommandExit, CommandQuit:
			return r.end(runCtx, ctrl, handler, MessageTerminated)
		}

		reply, err = ctrl.Handle(runCtx, text)
		if err != nil {
			if runCtx.Err() != nil {
				return r.end(runCtx, ctrl, handler, MessageInterrupted)
			}
			r.export(context.WithoutCancel(runCtx), ctrl)
			return fmt.Errorf("turn failed: %w", err)
		}
		if err := r.emit(runCtx, ctrl, handler, reply); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) emit(ctx context.Context, ctrl *controller.Controller, handler IOHandler, reply controller.Reply) error {
	if err := handler.Output(ctx, reply); err != nil {
		return r.abort(ctx, ctrl, fmt.Errorf("output error: %w", err))
	}
	r.export(ctx, ctrl)
	return nil
}

// abort stops the controller after a handler failure and exports the last snapshot.
func (r *Runner) abort(ctx context.Context, ctrl *controller.Controller, err error) error {
	ctx = context.WithoutCancel(ctx)
	err = ctrl.Abort(ctx, err)
	r.export(ctx, ctrl)
	return err
}

// end stops the controller and prints msg. The run context may already be
// cancelled, so cleanup runs without cancellation.
func (r *Runner) end(ctx context.Context, ctrl *controller.Controller, handler IOHandler, msg string) error {
	if sig := InterruptSignal(ctx); sig != nil {
		r.Logger.Info("session interrupted by signal", "signal", sig.String())
	}
	ctx = context.WithoutCancel(ctx)
	ctrl.Interrupt(ctx)
	r.export(ctx, ctrl)
	if err := handler.SystemOutput(ctx, msg); err != nil {
		return fmt.Errorf("output error: %w", err)
	}
	return nil
}

// export saves the snapshot. Failures are logged; the session goes on.
func (r *Runner) export(ctx context.Context, ctrl *controller.Controller) {
	if r.Store == nil || r.SessionID == "" {
		return
	}
	state := ctrl.Tracker().State()
	if err := r.Store.Save(ctx, r.SessionID, state); err != nil {
		r.Logger.Warn("snapshot export failed", "session_id", r.SessionID, "error", err)
		return
	}
	r.Logger.Debug("snapshot exported", "session_id", r.SessionID, "turns", state.Turns)
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	th := NewTextHandler(os.Stdout, WithStdin(), WithTextHandlerRenderer(r.Renderer))
	// Memoize to prevent creating new pumps on subsequent Run() calls
	r.Handler = th
	return th
}
