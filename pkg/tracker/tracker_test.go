package tracker_test

import (
	"strings"
	"testing"

	"github.com/aretw0/listenbot/pkg/domain"
	"github.com/aretw0/listenbot/pkg/tracker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTracker_New(t *testing.T) {
	tr := tracker.New()
	s := tr.State()

	assert.Equal(t, 0, s.Turns)
	assert.Empty(t, s.MentionedTopics)
	assert.Empty(t, s.TextHistory)
	assert.Empty(t, s.TopicHistory)
	assert.Empty(t, s.FeedbackByTopic)
	assert.Empty(t, s.FeedbackHistory)
	assert.Empty(t, s.RedeemCounts)
	assert.Empty(t, s.ActionHistory)
}

func TestTracker_RobotTurn(t *testing.T) {
	tr := tracker.New()
	require.NoError(t, tr.Update("ACTION GREET INTRO", "Hello there", false))

	s := tr.State()
	assert.Equal(t, 1, s.Turns)
	assert.Equal(t, []domain.Topic{domain.TopicGreet}, s.MentionedTopics)
	assert.Equal(t, []tracker.TextEntry{{Role: tracker.RoleRobot, Text: "Hello there"}}, s.TextHistory)
	assert.Equal(t, []tracker.TopicEntry{{Role: tracker.RoleRobot, Topic: domain.TopicGreet}}, s.TopicHistory)
	assert.Equal(t, []string{"ACTION GREET INTRO"}, s.ActionHistory)
	assert.Empty(t, s.FeedbackHistory)
}

func TestTracker_UserTurnDoesNotCount(t *testing.T) {
	tr := tracker.New()
	require.NoError(t, tr.Update("FEEDBACK PRICE POSITIVE", "PRICE Y", false))

	s := tr.State()
	assert.Equal(t, 0, s.Turns)
	assert.Equal(t, []string{"FEEDBACK PRICE POSITIVE"}, s.FeedbackHistory)
	assert.Empty(t, s.ActionHistory)
	assert.Equal(t, tracker.RoleUser, s.TextHistory[0].Role)

	f, ok := tr.FeedbackFor(domain.TopicPrice)
	assert.True(t, ok)
	assert.Equal(t, domain.FeedbackPositive, f)
}

func TestTracker_AnyOtherRoleIsUserTurn(t *testing.T) {
	tr := tracker.New()
	require.NoError(t, tr.Update("USER PRICE POSITIVE", "PRICE Y", false))

	s := tr.State()
	assert.Equal(t, 0, s.Turns)
	assert.Equal(t, []string{"USER PRICE POSITIVE"}, s.FeedbackHistory)
	assert.Equal(t, tracker.RoleUser, s.TopicHistory[0].Role)
	assert.Equal(t, domain.FeedbackPositive, s.FeedbackByTopic[domain.TopicPrice])
}

func TestTracker_RepeatCountsTurnButNotRedeem(t *testing.T) {
	tr := tracker.New()
	require.NoError(t, tr.Update("ACTION PRICE FIRST_REDEEM", "Let me explain again", false))
	require.NoError(t, tr.Update("ACTION PRICE FIRST_REDEEM", "Let me explain again", true))

	assert.Equal(t, 2, tr.Turns())
	assert.Equal(t, 1, tr.RedeemsFor(domain.TopicPrice))
	assert.Len(t, tr.State().ActionHistory, 2)
}

func TestTracker_RedeemCountsPerTopic(t *testing.T) {
	tr := tracker.New()
	require.NoError(t, tr.Update("ACTION PRICE FIRST_REDEEM", "a", false))
	require.NoError(t, tr.Update("ACTION PRICE SECOND_REDEEM", "b", false))
	require.NoError(t, tr.Update("ACTION LOCATION FIRST_REDEEM", "c", false))
	require.NoError(t, tr.Update("ACTION LOCATION ANSWER", "d", false))

	assert.Equal(t, 2, tr.RedeemsFor(domain.TopicPrice))
	assert.Equal(t, 1, tr.RedeemsFor(domain.TopicLocation))
	assert.Equal(t, 0, tr.RedeemsFor(domain.TopicGreet))
}

func TestTracker_FeedbackOnlyDurableOverwrites(t *testing.T) {
	tr := tracker.New()
	steps := []string{
		"FEEDBACK PRICE POSITIVE",
		"FEEDBACK PRICE UNCLEAR",
		"FEEDBACK PRICE NEGATIVE",
		"FEEDBACK PRICE ASK",
		"FEEDBACK PRICE UNCLEAR",
		"FEEDBACK LOCATION UNCLEAR",
	}
	for _, cmd := range steps {
		require.NoError(t, tr.Update(cmd, "", false))
	}

	f, ok := tr.FeedbackFor(domain.TopicPrice)
	assert.True(t, ok)
	assert.Equal(t, domain.FeedbackNegative, f)

	_, ok = tr.FeedbackFor(domain.TopicLocation)
	assert.False(t, ok, "UNCLEAR must never populate the feedback map")

	assert.Equal(t, steps, tr.State().FeedbackHistory)
}

func TestTracker_MentionedTopicsIsDistinctUnion(t *testing.T) {
	tr := tracker.New()
	cmds := []string{
		"ACTION GREET INTRO",
		"FEEDBACK GREET POSITIVE",
		"ACTION PRICE INTRO",
		"FEEDBACK LOCATION NEGATIVE",
		"ACTION PRICE ANSWER",
		"ACTION GREET STOP",
	}
	for _, cmd := range cmds {
		require.NoError(t, tr.Update(cmd, "", false))
	}

	assert.Equal(t, []domain.Topic{domain.TopicGreet, domain.TopicPrice, domain.TopicLocation}, tr.State().MentionedTopics)
	assert.False(t, tr.Mentioned(domain.TopicResult))
	assert.Len(t, tr.State().TextHistory, len(cmds))
	assert.Len(t, tr.State().TopicHistory, len(cmds))
}

func TestTracker_FailedUpdateIsAtomic(t *testing.T) {
	tr := tracker.New()
	require.NoError(t, tr.Update("ACTION GREET INTRO", "Hello", false))
	before := tr.State()

	bad := []struct {
		cmd     string
		wantErr error
	}{
		{"ACTION GREET", domain.ErrMalformedCommand},
		{"ACTION GREET INTRO EXTRA", domain.ErrMalformedCommand},
		{"ACTION PARKING INTRO", domain.ErrUnknownTopic},
		{"FEEDBACK PRICE MAYBE", domain.ErrUnknownFeedback},
		{"ACTION PRICE SING", domain.ErrUnknownAction},
		{"USER PRICE INTRO", domain.ErrUnknownFeedback},
	}
	for _, tc := range bad {
		err := tr.Update(tc.cmd, "ignored", false)
		assert.ErrorIs(t, err, tc.wantErr, "command %q", tc.cmd)
	}

	assert.Equal(t, before, tr.State())
}

func TestTracker_StateIsACopy(t *testing.T) {
	tr := tracker.New()
	require.NoError(t, tr.Update("ACTION PRICE FIRST_REDEEM", "x", false))

	s := tr.State()
	s.Turns = 99
	s.RedeemCounts[domain.TopicPrice] = 42
	s.ActionHistory[0] = "mutated"

	assert.Equal(t, 1, tr.Turns())
	assert.Equal(t, 1, tr.RedeemsFor(domain.TopicPrice))
	assert.Equal(t, "ACTION PRICE FIRST_REDEEM", tr.State().ActionHistory[0])
}

func TestTracker_String(t *testing.T) {
	tr := tracker.New()
	require.NoError(t, tr.Update("ACTION GREET INTRO", "Hello", false))
	require.NoError(t, tr.Update("FEEDBACK GREET NEGATIVE", "GREET N", false))
	require.NoError(t, tr.Update("ACTION GREET FIRST_REDEEM", "Just a minute?", false))

	lines := strings.Split(strings.TrimSuffix(tr.String(), "\n"), "\n")
	require.Len(t, lines, 8)
	assert.Equal(t, "#TURNS: 2", lines[0])
	assert.Equal(t, "MENTIONED TOPICS: [GREET]", lines[1])
	assert.Equal(t, "TEXT HISTORY: [ROBOT: Hello, USER: GREET N, ROBOT: Just a minute?]", lines[2])
	assert.Equal(t, "TOPIC HISTORY: [ROBOT: GREET, USER: GREET, ROBOT: GREET]", lines[3])
	assert.Equal(t, "FEEDBACK OF TOPICS: {GREET: NEGATIVE}", lines[4])
	assert.Equal(t, "FEEDBACK HISTORY: [FEEDBACK GREET NEGATIVE]", lines[5])
	assert.Equal(t, "REDEEM OF TOPICS: {GREET: 1}", lines[6])
	assert.Equal(t, "ACTION HISTORY: [ACTION GREET INTRO, ACTION GREET FIRST_REDEEM]", lines[7])
}
