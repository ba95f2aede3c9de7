package ports

import "context"

// ResponseEngine is the external scripted dialogue engine.
//
// For "ACTION <topic> <action>" it returns the text to speak.
// For "FEEDBACK <topic> <feedback>" it returns the next robot command, which the
// caller renders with a second Respond call.
// For "EXEC SWITCH <topic>" it only records the topic change; the reply is ignored.
type ResponseEngine interface {
	Respond(ctx context.Context, command string) (string, error)
}

// ResponseEngineFunc adapts a function to the ResponseEngine interface.
type ResponseEngineFunc func(ctx context.Context, command string) (string, error)

// Respond calls f.
func (f ResponseEngineFunc) Respond(ctx context.Context, command string) (string, error) {
	return f(ctx, command)
}
