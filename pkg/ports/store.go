package ports

import (
	"context"

	"github.com/aretw0/listenbot/pkg/tracker"
)

// StateStore exports tracker snapshots so a running session can be inspected
// from outside the process. Sessions are never resumed from it.
type StateStore interface {
	// Save persists the snapshot for a given session ID.
	Save(ctx context.Context, sessionID string, state *tracker.State) error

	// Load retrieves the snapshot for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*tracker.State, error)

	// Delete removes the snapshot for a given session ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of stored sessions.
	List(ctx context.Context) ([]string, error)
}
