package dsl

import (
	"fmt"

	"github.com/aretw0/listenbot/pkg/adapters/script"
	"github.com/aretw0/listenbot/pkg/domain"
)

// TopicBuilder provides a fluent API for configuring a topic.
type TopicBuilder struct {
	topic   domain.Topic
	actions map[domain.Action]string
	rules   map[domain.Feedback]*ruleDraft
	builder *Builder
}

type ruleDraft struct {
	next   []string
	result domain.Result
}

// Say sets the text the robot speaks for an action.
func (t *TopicBuilder) Say(action domain.Action, text string) *TopicBuilder {
	t.actions[action] = text
	return t
}

// On appends the next ACTION commands for a feedback. The n-th occurrence of
// the feedback uses the n-th command; the last one is reused afterwards.
func (t *TopicBuilder) On(feedback domain.Feedback, next ...string) *TopicBuilder {
	t.draft(feedback).next = append(t.draft(feedback).next, next...)
	return t
}

// Result records a session outcome whenever the feedback is given.
func (t *TopicBuilder) Result(feedback domain.Feedback, result domain.Result) *TopicBuilder {
	t.draft(feedback).result = result
	return t
}

// Topic switches to another topic of the same script.
func (t *TopicBuilder) Topic(topic domain.Topic) *TopicBuilder {
	return t.builder.Topic(topic)
}

// Build compiles the whole script.
func (t *TopicBuilder) Build() (*script.Script, error) {
	return t.builder.Build()
}

func (t *TopicBuilder) draft(feedback domain.Feedback) *ruleDraft {
	d, ok := t.rules[feedback]
	if !ok {
		d = &ruleDraft{}
		t.rules[feedback] = d
	}
	return d
}

func (d *ruleDraft) compile() (script.Rule, error) {
	if len(d.next) == 0 {
		return script.Rule{}, fmt.Errorf("rule has no next command")
	}
	rule := script.Rule{Result: d.result}
	for _, n := range d.next {
		cmd, err := domain.ParseCommand(n)
		if err != nil {
			return script.Rule{}, err
		}
		if !cmd.IsAction() {
			return script.Rule{}, fmt.Errorf("%w: next %q is not an ACTION", domain.ErrMalformedCommand, n)
		}
		rule.Next = append(rule.Next, cmd)
	}
	return rule, nil
}
