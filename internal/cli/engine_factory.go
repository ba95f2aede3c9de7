package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/listenbot/internal/config"
	"github.com/aretw0/listenbot/pkg/adapters/remote"
	"github.com/aretw0/listenbot/pkg/adapters/script"
	"github.com/aretw0/listenbot/pkg/ports"
)

// LoadScript resolves a built-in industry name or a script file, then validates it.
// Names without an extension are industries.
func LoadScript(name string) (*script.Script, error) {
	var (
		s   *script.Script
		err error
	)
	if filepath.Ext(name) == "" {
		s, err = script.Builtin(name)
	} else {
		s, err = script.Load(name)
	}
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("script %q is invalid: %w", name, err)
	}
	return s, nil
}

// createEngine builds the response engine for one session. The returned
// release func frees server-side state of remote engines.
func createEngine(cfg *config.Config, sessionID string, logger *slog.Logger) (ports.ResponseEngine, func(context.Context), error) {
	switch cfg.Engine.Kind {
	case config.EngineRemote:
		e, err := remote.New(cfg.Engine.URL,
			remote.WithTimeout(cfg.Engine.Timeout),
			remote.WithSessionID(sessionID),
		)
		if err != nil {
			return nil, nil, err
		}
		release := func(ctx context.Context) {
			if err := e.Close(ctx); err != nil {
				logger.Warn("failed to release remote session", "session_id", sessionID, "error", err)
			}
		}
		return e, release, nil
	case config.EngineScript:
		s, err := LoadScript(cfg.Script)
		if err != nil {
			return nil, nil, err
		}
		logger.Debug("script loaded", "name", s.Name, "topics", len(s.Topics))
		return script.NewEngine(s, script.WithLogger(logger)), func(context.Context) {}, nil
	}
	return nil, nil, fmt.Errorf("unknown engine kind %q", cfg.Engine.Kind)
}
