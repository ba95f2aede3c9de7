package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		tr := tracker.New()
		require.NoError(t, tr.Update("ACTION GREET INTRO", "Hello", false))
		require.NoError(t, tr.Update("FEEDBACK GREET NEGATIVE", "GREET N", false))
		require.NoError(t, tr.Update("ACTION GREET FIRST_REDEEM", "One minute?", false))
		state := tr.State()

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.Turns, loaded.Turns)
		assert.Equal(t, state.MentionedTopics, loaded.MentionedTopics)
		assert.Equal(t, state.TextHistory, loaded.TextHistory)
		assert.Equal(t, state.ActionHistory, loaded.ActionHistory)
		assert.Equal(t, domain.FeedbackNegative, loaded.FeedbackByTopic[domain.TopicGreet])
		assert.Equal(t, 1, loaded.RedeemCounts[domain.TopicGreet])
	})

	t.Run("Saved Snapshot Is Isolated", func(t *testing.T) {
		state := tracker.NewState()
		state.ActionHistory = append(state.ActionHistory, "ACTION GREET INTRO")
		require.NoError(t, store.Save(ctx, sessionID, state))

		state.ActionHistory[0] = "mutated"
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "ACTION GREET INTRO", loaded.ActionHistory[0])
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, tracker.NewState())
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, tracker.NewState())
		_ = store.Save(ctx, id2, tracker.NewState())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
