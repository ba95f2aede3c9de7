// Package classifier maps raw user replies to a Topic and a Feedback value.
//
// Classification is a closed lexical lookup: replies are expected in the
// shorthand "<TOPIC> <Y|N|?>", for example "PRICE Y".
package classifier

import (
	"fmt"
	"strings"

	"github.com/aretw0/listenbot/pkg/domain"
)

var feedbackTokens = map[string]domain.Feedback{
	"N": domain.FeedbackNegative,
	"Y": domain.FeedbackPositive,
	"?": domain.FeedbackUnclear,
}

// Topic returns the topic of text.
// While the previous topic is GREET every reply belongs to the greeting.
func Topic(text string, previous domain.Topic) (domain.Topic, error) {
	if previous == domain.TopicGreet {
		return domain.TopicGreet, nil
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return domain.TopicNone, fmt.Errorf("%w: empty reply", domain.ErrUnknownTopic)
	}
	return domain.ParseTopic(fields[0])
}

// Feedback returns the feedback carried by the second token of text.
// A nil topic is derived from text first, so a reply with a bad topic token fails
// with ErrUnknownTopic before its feedback token is looked at.
func Feedback(text string, topic *domain.Topic) (domain.Feedback, error) {
	if topic == nil {
		if _, err := Topic(text, domain.TopicNone); err != nil {
			return domain.FeedbackNone, err
		}
	}
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return domain.FeedbackNone, fmt.Errorf("%w: missing in %q", domain.ErrUnknownFeedbackToken, text)
	}
	feedback, ok := feedbackTokens[fields[1]]
	if !ok {
		return domain.FeedbackNone, fmt.Errorf("%w: %q", domain.ErrUnknownFeedbackToken, fields[1])
	}
	return feedback, nil
}

// Classify builds the FEEDBACK command for a user reply.
func Classify(text string, previous domain.Topic) (domain.Command, error) {
	topic, err := Topic(text, previous)
	if err != nil {
		return domain.Command{}, err
	}
	feedback, err := Feedback(text, &topic)
	if err != nil {
		return domain.Command{}, err
	}
	return domain.FeedbackCommand(topic, feedback), nil
}
