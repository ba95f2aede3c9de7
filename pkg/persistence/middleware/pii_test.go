package middleware_test

import (
	"context"
	"testing"

	"github.com/aretw0/listenbot/pkg/adapters/memory"
	"github.com/aretw0/listenbot/pkg/persistence/middleware"
	"github.com/aretw0/listenbot/pkg/ports"
	"github.com/aretw0/listenbot/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	mw, err := middleware.NewPIIMiddleware([]string{`\+?\d[\d -]{7,}\d`, `[\w.]+@[\w.]+`})
	require.NoError(t, err)
	store := mw(underlying)
	ctx := context.Background()

	tr := tracker.New()
	require.NoError(t, tr.Update("ACTION GREET INTRO", "Hello, may I call you back?", false))
	require.NoError(t, tr.Update("FEEDBACK GREET POSITIVE", "GREET Y call me at +86 138 0000 0000 or lin@example.com", false))

	require.NoError(t, store.Save(ctx, "pii", tr.State()))

	// The live tracker is untouched.
	assert.Contains(t, tr.State().TextHistory[1].Text, "138 0000")

	stored, err := underlying.Load(ctx, "pii")
	require.NoError(t, err)
	assert.Equal(t, "Hello, may I call you back?", stored.TextHistory[0].Text)
	assert.Equal(t, "GREET Y call me at *** or ***", stored.TextHistory[1].Text)
	assert.Equal(t, []string{"ACTION GREET INTRO"}, stored.ActionHistory)
}

func TestPIIMiddleware_InvalidPattern(t *testing.T) {
	_, err := middleware.NewPIIMiddleware([]string{"("})
	assert.ErrorContains(t, err, "invalid redact pattern")
}

func TestPIIMiddleware_Contract(t *testing.T) {
	mw, err := middleware.NewPIIMiddleware(nil)
	require.NoError(t, err)
	ports.RunStateStoreContract(t, middleware.Chain(memory.NewStore(), mw))
}
