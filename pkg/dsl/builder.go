package dsl

import (
	"errors"
	"fmt"

	"github.com/aretw0/listenbot/pkg/adapters/script"
	"github.com/aretw0/listenbot/pkg/domain"
)

// Builder manages the script construction.
type Builder struct {
	name   string
	topics map[domain.Topic]*TopicBuilder
	order  []domain.Topic
}

// New creates a new script builder.
func New(name string) *Builder {
	return &Builder{
		name:   name,
		topics: make(map[domain.Topic]*TopicBuilder),
	}
}

// Topic returns the builder of a topic.
// If the topic already exists, it returns the existing builder.
func (b *Builder) Topic(t domain.Topic) *TopicBuilder {
	if tb, ok := b.topics[t]; ok {
		return tb
	}
	tb := &TopicBuilder{
		topic:   t,
		actions: make(map[domain.Action]string),
		rules:   make(map[domain.Feedback]*ruleDraft),
		builder: b,
	}
	b.topics[t] = tb
	b.order = append(b.order, t)
	return tb
}

// Build compiles and validates the script.
func (b *Builder) Build() (*script.Script, error) {
	s := &script.Script{
		Name:   b.name,
		Topics: make(map[domain.Topic]*script.Topic, len(b.topics)),
	}

	var errs []error
	for _, t := range b.order {
		tb := b.topics[t]
		if !t.Valid() {
			errs = append(errs, fmt.Errorf("%w: %d", domain.ErrUnknownTopic, int(t)))
			continue
		}
		compiled := &script.Topic{
			Actions:  make(map[domain.Action]string, len(tb.actions)),
			Feedback: make(map[domain.Feedback]script.Rule, len(tb.rules)),
		}
		for a, text := range tb.actions {
			compiled.Actions[a] = text
		}
		for f, draft := range tb.rules {
			rule, err := draft.compile()
			if err != nil {
				errs = append(errs, fmt.Errorf("%s.feedback.%s: %w", t, f, err))
				continue
			}
			compiled.Feedback[f] = rule
		}
		s.Topics[t] = compiled
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("script %q is invalid: %w", b.name, err)
	}
	return s, nil
}
