package runner

import (
	"context"

	"github.com/aretw0/listenbot/pkg/controller"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents a robot reply.
	Output(ctx context.Context, reply controller.Reply) error

	// Input reads a user reply.
	// Returns io.EOF when the input is exhausted.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (PRINT dump, Interrupted!, Terminated!).
	SystemOutput(ctx context.Context, msg string) error
}
