package domain

import "errors"

var (
	// ErrMalformedCommand is returned when a command string is not "<ROLE> <TOPIC> <SUBCOMMAND>".
	ErrMalformedCommand = errors.New("malformed command")

	// ErrUnknownTopic is returned when a topic token is not part of the vocabulary.
	ErrUnknownTopic = errors.New("unknown topic")

	// ErrUnknownFeedback is returned when a FEEDBACK subcommand is not a Feedback name.
	ErrUnknownFeedback = errors.New("unknown feedback")

	// ErrUnknownFeedbackToken is returned when a user reply carries a token outside the Y/N/? map.
	ErrUnknownFeedbackToken = errors.New("unknown feedback token")

	// ErrUnknownAction is returned when an ACTION subcommand is not an Action name.
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnknownResult is returned when a result tag is not part of the vocabulary.
	ErrUnknownResult = errors.New("unknown result")

	// ErrEngineUnavailable is returned when the response engine fails or replies with garbage.
	ErrEngineUnavailable = errors.New("response engine unavailable")
)

var (
	// ErrSessionStopped is returned when a stopped session is asked to take another turn.
	ErrSessionStopped = errors.New("session stopped")

	// ErrAlreadyStarted is returned when the greeting is requested twice.
	ErrAlreadyStarted = errors.New("session already started")

	// ErrNotStarted is returned when a turn is requested before the greeting.
	ErrNotStarted = errors.New("session not started")

	// ErrSessionNotFound is returned when a session ID cannot be found in the store.
	ErrSessionNotFound = errors.New("session not found")
)
