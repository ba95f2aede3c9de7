package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/aretw0/listenbot/internal/config"
	"github.com/aretw0/listenbot/internal/presentation/graph"
)

// RenderGraph draws the configured script as Mermaid. With a session ID the
// snapshot from the configured store is overlaid.
func RenderGraph(ctx context.Context, cfg *config.Config, sessionID string, logger *slog.Logger) (string, error) {
	s, err := LoadScript(cfg.Script)
	if err != nil {
		return "", err
	}
	if sessionID == "" {
		return graph.GenerateMermaid(s, nil), nil
	}

	store, closeStore, err := createStore(ctx, cfg.Store, logger)
	if err != nil {
		return "", err
	}
	defer closeStore()
	if store == nil {
		return "", errors.New("a session overlay needs a store (--store)")
	}

	state, err := store.Load(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("failed to load session %q: %w", sessionID, err)
	}
	return graph.GenerateMermaid(s, graph.OverlayFromState(state)), nil
}
