package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/aretw0/listenbot/internal/config"
	"github.com/aretw0/listenbot/internal/logging"
	"github.com/aretw0/listenbot/pkg/domain"
)

// NewLogger configures the application logger on w (normally Stderr,
// to keep Stdout for the dialogue).
func NewLogger(cfg config.LogConfig, w io.Writer) *slog.Logger {
	level, err := logging.ParseLevel(cfg.Level)
	if err != nil {
		level = slog.LevelInfo
	}
	return logging.NewWithWriter(w, level, cfg.Format)
}

// debugEnabled reports whether lifecycle events should be logged.
func debugEnabled(cfg config.LogConfig) bool {
	level, err := logging.ParseLevel(cfg.Level)
	return err == nil && level <= slog.LevelDebug
}

func isInterrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, io.EOF)
}

// handleExecutionError maps interruptions to a clean exit.
func handleExecutionError(err error) error {
	if err == nil || isInterrupted(err) {
		return nil
	}
	return err
}

// outcomeReporter is implemented by engines that know the session result.
type outcomeReporter interface {
	Outcome() (domain.Result, bool)
}
