package domain

import "fmt"

// Topic identifies the subject of the current exchange.
type Topic int

const (
	// TopicNone is the zero value. It is never a valid wire topic.
	TopicNone Topic = iota
	TopicGreet
	TopicPrice
	TopicLocation
	TopicResult
)

// Topics lists every valid topic in declaration order.
var Topics = []Topic{TopicGreet, TopicPrice, TopicLocation, TopicResult}

func (t Topic) String() string {
	switch t {
	case TopicGreet:
		return "GREET"
	case TopicPrice:
		return "PRICE"
	case TopicLocation:
		return "LOCATION"
	case TopicResult:
		return "RESULT"
	default:
		return ""
	}
}

// Valid reports whether t is one of the closed set of topics.
func (t Topic) Valid() bool {
	return t >= TopicGreet && t <= TopicResult
}

// ParseTopic maps a topic name to its Topic.
// Returns ErrUnknownTopic if the name is not part of the vocabulary.
func ParseTopic(name string) (Topic, error) {
	switch name {
	case "GREET":
		return TopicGreet, nil
	case "PRICE":
		return TopicPrice, nil
	case "LOCATION":
		return TopicLocation, nil
	case "RESULT":
		return TopicResult, nil
	}
	return TopicNone, fmt.Errorf("%w: %q", ErrUnknownTopic, name)
}

// MarshalText implements encoding.TextMarshaler so topics can key JSON objects.
func (t Topic) MarshalText() ([]byte, error) {
	if !t.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownTopic, int(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Topic) UnmarshalText(b []byte) error {
	parsed, err := ParseTopic(string(b))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
