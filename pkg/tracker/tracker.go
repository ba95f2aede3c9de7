// Package tracker records the state of a single dialogue session.
//
// A Tracker is owned by exactly one controller and is not safe for concurrent use.
// Update is the only mutator and is all-or-nothing: a command that fails to parse
// leaves the state untouched.
package tracker

import (
	"github.com/aretw0/listenbot/pkg/domain"
)

// Tracker wraps the State of one session.
type Tracker struct {
	state *State
}

// New creates a tracker with an empty state.
func New() *Tracker {
	return &Tracker{state: NewState()}
}

// Update records a command and the text spoken with it. An ACTION command is a
// robot turn; any other role is a user reply carrying a feedback.
// repeat marks a robot action re-emitted after an UNCLEAR reply; it still counts
// as a turn but never as a new redeem attempt.
func (t *Tracker) Update(command, text string, repeat bool) error {
	cmd, err := domain.ParseUpdate(command)
	if err != nil {
		return err
	}

	s := t.state
	role := RoleUser
	switch cmd.Role {
	case domain.RoleAction:
		role = RoleRobot
		s.Turns++
		if cmd.Action.IsRedeem() && !repeat {
			s.RedeemCounts[cmd.Topic]++
		}
		s.ActionHistory = append(s.ActionHistory, command)
	case domain.RoleFeedback:
		if cmd.Feedback.Durable() {
			s.FeedbackByTopic[cmd.Topic] = cmd.Feedback
		}
		s.FeedbackHistory = append(s.FeedbackHistory, command)
	}

	if !s.Mentioned(cmd.Topic) {
		s.MentionedTopics = append(s.MentionedTopics, cmd.Topic)
	}
	s.TextHistory = append(s.TextHistory, TextEntry{Role: role, Text: text})
	s.TopicHistory = append(s.TopicHistory, TopicEntry{Role: role, Topic: cmd.Topic})
	return nil
}

// State returns a copy of the current state.
func (t *Tracker) State() *State {
	return t.state.Clone()
}

// Turns returns the number of robot turns recorded so far.
func (t *Tracker) Turns() int {
	return t.state.Turns
}

// FeedbackFor returns the durable feedback for a topic, if any.
func (t *Tracker) FeedbackFor(topic domain.Topic) (domain.Feedback, bool) {
	f, ok := t.state.FeedbackByTopic[topic]
	return f, ok
}

// RedeemsFor returns how many redeem attempts were made on a topic.
func (t *Tracker) RedeemsFor(topic domain.Topic) int {
	return t.state.RedeemCounts[topic]
}

// Mentioned reports whether a topic has been mentioned by either speaker.
func (t *Tracker) Mentioned(topic domain.Topic) bool {
	return t.state.Mentioned(topic)
}

func (t *Tracker) String() string {
	return t.state.String()
}
