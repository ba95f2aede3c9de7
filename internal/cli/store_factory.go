package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/listenbot/internal/config"
	"github.com/aretw0/listenbot/pkg/adapters/file"
	"github.com/aretw0/listenbot/pkg/adapters/memory"
	"github.com/aretw0/listenbot/pkg/adapters/redis"
	"github.com/aretw0/listenbot/pkg/persistence/middleware"
	"github.com/aretw0/listenbot/pkg/ports"
)

// createStore builds the snapshot store. It returns a nil store for the "none" backend.
func createStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (ports.StateStore, func() error, error) {
	store, closeFn, err := openStore(ctx, cfg, logger)
	if err != nil || store == nil || len(cfg.Redact) == 0 {
		return store, closeFn, err
	}
	redact, err := middleware.NewPIIMiddleware(cfg.Redact)
	if err != nil {
		_ = closeFn()
		return nil, nil, err
	}
	return middleware.Chain(store, redact), closeFn, nil
}

func openStore(ctx context.Context, cfg config.StoreConfig, logger *slog.Logger) (ports.StateStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Backend {
	case config.StoreNone, "":
		return nil, noop, nil
	case config.StoreMemory:
		return memory.NewStore(), noop, nil
	case config.StoreFile:
		logger.Debug("file store", "dir", cfg.File.Dir)
		return file.New(cfg.File.Dir), noop, nil
	case config.StoreRedis:
		store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB,
			redis.WithPrefix(cfg.Redis.Prefix),
			redis.WithTTL(cfg.Redis.TTL),
		)
		if err := store.Ping(ctx); err != nil {
			_ = store.Close()
			return nil, noop, fmt.Errorf("redis store unavailable at %s: %w", cfg.Redis.Addr, err)
		}
		logger.Debug("redis store connected", "addr", cfg.Redis.Addr, "prefix", cfg.Redis.Prefix)
		return store, store.Close, nil
	}
	return nil, noop, fmt.Errorf("unknown store backend %q", cfg.Backend)
}
