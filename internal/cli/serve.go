package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/listenbot/internal/config"
	httpadapter "github.com/aretw0/listenbot/pkg/adapters/http"
	"github.com/aretw0/listenbot/pkg/adapters/script"
	"github.com/aretw0/listenbot/pkg/ports"
)

// DefaultServeAddr is used by Serve when no address is configured.
const DefaultServeAddr = ":8080"

// Serve exposes the configured script as a response engine over HTTP until ctx is cancelled.
// onListen, if set, receives the bound address.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger, onListen func(addr string)) error {
	s, err := LoadScript(cfg.Script)
	if err != nil {
		return err
	}

	pool := httpadapter.NewEnginePool(func() ports.ResponseEngine {
		return script.NewEngine(s, script.WithLogger(logger))
	})

	addr := cfg.HTTP.Addr
	if addr == "" {
		addr = DefaultServeAddr
	}
	bound, shutdown, err := startServer(addr, httpadapter.NewEngineHandler(pool, logger), logger)
	if err != nil {
		return fmt.Errorf("engine server: %w", err)
	}
	logger.Info("serving script engine", "addr", bound, "script", s.Name)
	if onListen != nil {
		onListen(bound)
	}

	<-ctx.Done()
	logger.Info("start shutdown", "sessions", pool.Len())

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown did not complete in %v: %w", shutdownTimeout, err)
	}
	logger.Info("server stopped gracefully")
	return nil
}
