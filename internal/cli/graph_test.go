package cli

import (
	"context"
	"testing"

	"github.com/aretw0/listenbot/internal/config"
	"github.com/aretw0/listenbot/internal/logging"
	"github.com/aretw0/listenbot/pkg/adapters/file"
	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderGraph(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewNop()
	cfg := testConfig()

	out, err := RenderGraph(ctx, cfg, "", logger)
	require.NoError(t, err)
	assert.Contains(t, out, "graph TD")
	assert.NotContains(t, out, "classDef")

	_, err = RenderGraph(ctx, cfg, "call-1", logger)
	assert.ErrorContains(t, err, "needs a store")

	cfg.Store.Backend = config.StoreFile
	cfg.Store.File.Dir = t.TempDir()
	_, err = RenderGraph(ctx, cfg, "call-1", logger)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	tr := tracker.New()
	require.NoError(t, tr.Update("ACTION GREET INTRO", "Hello", false))
	require.NoError(t, file.New(cfg.Store.File.Dir).Save(ctx, "call-1", tr.State()))

	out, err = RenderGraph(ctx, cfg, "call-1", logger)
	require.NoError(t, err)
	assert.Contains(t, out, "class GREET_INTRO current;")
}
