package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/listenbot/pkg/ports"
	"github.com/aretw0/listenbot/pkg/tracker"
)

// Mask replaces every redacted match in exported snapshots.
const Mask = "***"

type piiMiddleware struct {
	next     ports.StateStore
	patterns []*regexp.Regexp
}

// NewPIIMiddleware creates a middleware that masks text history matching any
// of the patterns (phone numbers, e-mails...) before the snapshot is saved.
// Commands are never masked.
func NewPIIMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redact pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.StateStore) ports.StateStore {
		return &piiMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *piiMiddleware) Save(ctx context.Context, sessionID string, state *tracker.State) error {
	// The live state belongs to the session tracker.
	cloned := state.Clone()
	for i := range cloned.TextHistory {
		cloned.TextHistory[i].Text = m.mask(cloned.TextHistory[i].Text)
	}
	return m.next.Save(ctx, sessionID, cloned)
}

func (m *piiMiddleware) Load(ctx context.Context, sessionID string) (*tracker.State, error) {
	return m.next.Load(ctx, sessionID)
}

func (m *piiMiddleware) Delete(ctx context.Context, sessionID string) error {
	return m.next.Delete(ctx, sessionID)
}

func (m *piiMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *piiMiddleware) mask(text string) string {
	for _, p := range m.patterns {
		text = p.ReplaceAllString(text, Mask)
	}
	return text
}
