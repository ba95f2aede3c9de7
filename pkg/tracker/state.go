package tracker

import (
	"fmt"
	"strings"

	"github.com/aretw0/listenbot/pkg/domain"
)

// Role is the speaker of a tracked turn.
type Role string

const (
	RoleRobot Role = "ROBOT"
	RoleUser  Role = "USER"
)

// TextEntry records what a speaker said.
type TextEntry struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// TopicEntry records which topic a speaker addressed.
type TopicEntry struct {
	Role  Role         `json:"role"`
	Topic domain.Topic `json:"topic"`
}

// State is the cumulative record of one conversation.
type State struct {
	// Turns counts robot ACTION updates, repeats included.
	Turns int `json:"turns"`

	// MentionedTopics holds each topic once, in order of first mention.
	MentionedTopics []domain.Topic `json:"mentioned_topics"`

	TextHistory  []TextEntry  `json:"text_history"`
	TopicHistory []TopicEntry `json:"topic_history"`

	// FeedbackByTopic keeps the last POSITIVE or NEGATIVE feedback per topic.
	FeedbackByTopic map[domain.Topic]domain.Feedback `json:"feedback_by_topic"`
	FeedbackHistory []string                         `json:"feedback_history"`

	// RedeemCounts counts redeem actions per topic, repeats excluded.
	RedeemCounts  map[domain.Topic]int `json:"redeem_counts"`
	ActionHistory []string             `json:"action_history"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{
		MentionedTopics: []domain.Topic{},
		TextHistory:     []TextEntry{},
		TopicHistory:    []TopicEntry{},
		FeedbackByTopic: make(map[domain.Topic]domain.Feedback),
		FeedbackHistory: []string{},
		RedeemCounts:    make(map[domain.Topic]int),
		ActionHistory:   []string{},
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := &State{
		Turns:           s.Turns,
		MentionedTopics: append([]domain.Topic{}, s.MentionedTopics...),
		TextHistory:     append([]TextEntry{}, s.TextHistory...),
		TopicHistory:    append([]TopicEntry{}, s.TopicHistory...),
		FeedbackByTopic: make(map[domain.Topic]domain.Feedback, len(s.FeedbackByTopic)),
		FeedbackHistory: append([]string{}, s.FeedbackHistory...),
		RedeemCounts:    make(map[domain.Topic]int, len(s.RedeemCounts)),
		ActionHistory:   append([]string{}, s.ActionHistory...),
	}
	for k, v := range s.FeedbackByTopic {
		c.FeedbackByTopic[k] = v
	}
	for k, v := range s.RedeemCounts {
		c.RedeemCounts[k] = v
	}
	return c
}

// Mentioned reports whether t has appeared in any tracked command.
func (s *State) Mentioned(t domain.Topic) bool {
	for _, m := range s.MentionedTopics {
		if m == t {
			return true
		}
	}
	return false
}

// String renders the diagnostic dump, one line per field.
// Map fields are printed in topic order so the dump is stable.
func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "#TURNS: %d\n", s.Turns)
	fmt.Fprintf(&b, "MENTIONED TOPICS: %v\n", s.MentionedTopics)
	fmt.Fprintf(&b, "TEXT HISTORY: [%s]\n", joinEntries(len(s.TextHistory), func(i int) string {
		return fmt.Sprintf("%s: %s", s.TextHistory[i].Role, s.TextHistory[i].Text)
	}))
	fmt.Fprintf(&b, "TOPIC HISTORY: [%s]\n", joinEntries(len(s.TopicHistory), func(i int) string {
		return fmt.Sprintf("%s: %s", s.TopicHistory[i].Role, s.TopicHistory[i].Topic)
	}))
	fmt.Fprintf(&b, "FEEDBACK OF TOPICS: {%s}\n", joinTopics(func(t domain.Topic) (string, bool) {
		f, ok := s.FeedbackByTopic[t]
		return f.String(), ok
	}))
	fmt.Fprintf(&b, "FEEDBACK HISTORY: [%s]\n", strings.Join(s.FeedbackHistory, ", "))
	fmt.Fprintf(&b, "REDEEM OF TOPICS: {%s}\n", joinTopics(func(t domain.Topic) (string, bool) {
		n, ok := s.RedeemCounts[t]
		return fmt.Sprint(n), ok
	}))
	fmt.Fprintf(&b, "ACTION HISTORY: [%s]\n", strings.Join(s.ActionHistory, ", "))
	return b.String()
}

func joinEntries(n int, format func(int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = format(i)
	}
	return strings.Join(parts, ", ")
}

func joinTopics(value func(domain.Topic) (string, bool)) string {
	var parts []string
	for _, t := range domain.Topics {
		if v, ok := value(t); ok {
			parts = append(parts, fmt.Sprintf("%s: %s", t, v))
		}
	}
	return strings.Join(parts, ", ")
}
