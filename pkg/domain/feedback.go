package domain

import "fmt"

// Feedback classifies a reply about a topic.
// ASK marks a robot-initiated query, POSITIVE and NEGATIVE are durable user
// sentiment, UNCLEAR means the reply must be repeated.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackAsk
	FeedbackPositive
	FeedbackNegative
	FeedbackUnclear
)

func (f Feedback) String() string {
	switch f {
	case FeedbackAsk:
		return "ASK"
	case FeedbackPositive:
		return "POSITIVE"
	case FeedbackNegative:
		return "NEGATIVE"
	case FeedbackUnclear:
		return "UNCLEAR"
	default:
		return ""
	}
}

// Valid reports whether f is one of the closed set of feedback values.
func (f Feedback) Valid() bool {
	return f >= FeedbackAsk && f <= FeedbackUnclear
}

// Durable reports whether f is kept as the per-topic sentiment.
func (f Feedback) Durable() bool {
	return f == FeedbackPositive || f == FeedbackNegative
}

// ParseFeedback maps a feedback name to its Feedback.
func ParseFeedback(name string) (Feedback, error) {
	switch name {
	case "ASK":
		return FeedbackAsk, nil
	case "POSITIVE":
		return FeedbackPositive, nil
	case "NEGATIVE":
		return FeedbackNegative, nil
	case "UNCLEAR":
		return FeedbackUnclear, nil
	}
	return FeedbackNone, fmt.Errorf("%w: %q", ErrUnknownFeedback, name)
}

func (f Feedback) MarshalText() ([]byte, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFeedback, int(f))
	}
	return []byte(f.String()), nil
}

func (f *Feedback) UnmarshalText(b []byte) error {
	parsed, err := ParseFeedback(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
