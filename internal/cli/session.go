package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/aretw0/listenbot"
	"github.com/aretw0/listenbot/internal/config"
	"github.com/aretw0/listenbot/internal/presentation/tui"
	httpadapter "github.com/aretw0/listenbot/pkg/adapters/http"
	"github.com/aretw0/listenbot/pkg/controller"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/observability"
	"github.com/aretw0/listenbot/pkg/runner"
	"github.com/google/uuid"
)

const shutdownTimeout = 5 * time.Second

// SessionOptions carries the IO of a session.
type SessionOptions struct {
	In  io.Reader
	Out io.Writer

	// Logger defaults to the configured logger on stderr.
	Logger *slog.Logger

	// Signals makes the runner stop on SIGINT/SIGTERM.
	Signals bool

	// OnListen is called with the address of the inspection API once it accepts connections.
	OnListen func(addr string)
}

// SessionResult summarises a finished session.
type SessionResult struct {
	SessionID string
	Reason    domain.StopReason
	Turns     int
	Outcome   domain.Result
}

// RunSession runs one conversation from the greeting to STOP, end of input or cancellation.
func RunSession(ctx context.Context, cfg *config.Config, opts SessionOptions) (*SessionResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = NewLogger(cfg.Log, os.Stderr)
	}

	sessionID := cfg.Session.ID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	logger = logger.With("session_id", sessionID)

	if cfg.UI.Banner && !cfg.UI.JSON {
		tui.PrintBanner(opts.Out, fmt.Sprintf("Welcome to listenbot %s (press ctrl-c to exit)", listenbot.Version))
	}

	engine, release, err := createEngine(cfg, sessionID, logger)
	if err != nil {
		return nil, fmt.Errorf("error initializing engine: %w", err)
	}
	defer release(context.WithoutCancel(ctx))

	store, closeStore, err := createStore(ctx, cfg.Store, logger)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := closeStore(); err != nil {
			logger.Warn("failed to close store", "error", err)
		}
	}()

	result := &SessionResult{SessionID: sessionID}
	metrics := observability.NewMetrics()
	streams := httpadapter.NewStreamManager(logger)
	hooks := []domain.LifecycleHooks{
		metrics.Hooks(),
		streams.Hooks(sessionID),
		{
			OnStop: func(_ context.Context, e *domain.StopEvent) {
				result.Reason = e.Reason
			},
		},
	}
	if debugEnabled(cfg.Log) {
		hooks = append(hooks, observability.LogHooks(logger))
	}

	if cfg.HTTP.Addr != "" {
		handler := httpadapter.NewHandler(store,
			httpadapter.WithMetrics(metrics.Handler()),
			httpadapter.WithStreams(streams),
			httpadapter.WithLogger(logger),
		)
		addr, shutdown, err := startServer(cfg.HTTP.Addr, handler, logger)
		if err != nil {
			return nil, fmt.Errorf("inspection api: %w", err)
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Warn("inspection api did not stop gracefully", "error", err)
			}
		}()
		logger.Info("inspection api listening", "addr", addr)
		if opts.OnListen != nil {
			opts.OnListen(addr)
		}
	}

	ctrl := controller.New(engine,
		controller.WithLogger(logger),
		controller.WithLifecycleHooks(observability.Merge(hooks...)),
		controller.WithEngineTimeout(cfg.Engine.Timeout),
	)

	r := runner.NewRunner(
		runner.WithLogger(logger),
		runner.WithInputHandler(createHandler(cfg.UI, opts)),
		runner.WithSessionID(sessionID),
		runner.WithStore(store),
		runner.WithSignals(opts.Signals),
	)

	runErr := r.Run(ctx, ctrl)

	result.Turns = ctrl.Tracker().State().Turns
	if reporter, ok := engine.(outcomeReporter); ok {
		if outcome, ok := reporter.Outcome(); ok {
			result.Outcome = outcome
			metrics.RecordOutcome(outcome)
		}
	}
	logCompletion(logger, result, runErr)

	if err := handleExecutionError(runErr); err != nil {
		return result, err
	}
	return result, nil
}

func createHandler(ui config.UIConfig, opts SessionOptions) runner.IOHandler {
	if ui.JSON {
		h := runner.NewJSONHandler(opts.In, opts.Out)
		h.ReplyLimit = ui.MaxReply
		return h
	}
	thOpts := []runner.TextHandlerOption{
		runner.WithInputReader(opts.In),
		runner.WithReplyLimit(ui.MaxReply),
	}
	if ui.Markdown {
		thOpts = append(thOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
	}
	return runner.NewTextHandler(opts.Out, thOpts...)
}

// startServer listens on addr and serves handler in the background.
// It returns the bound address and a shutdown func.
func startServer(addr string, handler http.Handler, logger *slog.Logger) (string, func(context.Context) error, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, err
	}
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: shutdownTimeout,
	}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
		}
	}()
	return ln.Addr().String(), srv.Shutdown, nil
}

func logCompletion(logger *slog.Logger, result *SessionResult, err error) {
	attrs := []any{"reason", result.Reason, "turns", result.Turns}
	if result.Outcome != domain.ResultNone {
		attrs = append(attrs, "outcome", result.Outcome.String())
	}
	if err != nil && !isInterrupted(err) {
		logger.Error("session failed", append(attrs, "error", err)...)
		return
	}
	logger.Info("session finished", attrs...)
}
