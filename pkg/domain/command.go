package domain

import (
	"fmt"
	"strings"
)

// Role is the first token of a command.
type Role int

const (
	RoleNone Role = iota
	// RoleAction marks a robot command: "ACTION <TOPIC> <ACTION>".
	RoleAction
	// RoleFeedback marks a user command: "FEEDBACK <TOPIC> <FEEDBACK>".
	RoleFeedback
)

func (r Role) String() string {
	switch r {
	case RoleAction:
		return "ACTION"
	case RoleFeedback:
		return "FEEDBACK"
	default:
		return ""
	}
}

// Command is the parsed form of the wire contract with the response engine.
// Exactly one of Action or Feedback is set, according to Role.
type Command struct {
	Role     Role
	Topic    Topic
	Action   Action
	Feedback Feedback
}

// ActionCommand builds "ACTION <topic> <action>".
func ActionCommand(t Topic, a Action) Command {
	return Command{Role: RoleAction, Topic: t, Action: a}
}

// FeedbackCommand builds "FEEDBACK <topic> <feedback>".
func FeedbackCommand(t Topic, f Feedback) Command {
	return Command{Role: RoleFeedback, Topic: t, Feedback: f}
}

// SwitchCommand builds the topic-switch notification sent to the engine.
// It is a side effect only and is never parsed back into a Command.
func SwitchCommand(t Topic) string {
	return "EXEC SWITCH " + t.String()
}

// ParseCommand parses a three-token command string. The role must be ACTION or FEEDBACK.
func ParseCommand(s string) (Command, error) {
	fields, topic, err := splitCommand(s)
	if err != nil {
		return Command{}, err
	}
	switch fields[0] {
	case "ACTION":
		return parseAction(topic, fields[2])
	case "FEEDBACK":
		return parseFeedback(topic, fields[2])
	}
	return Command{}, fmt.Errorf("%w: unknown role %q", ErrMalformedCommand, fields[0])
}

// ParseUpdate parses a command for the session tracker. ACTION is a robot
// turn; any other role token is read as a user reply, so its subcommand must
// be a Feedback name.
func ParseUpdate(s string) (Command, error) {
	fields, topic, err := splitCommand(s)
	if err != nil {
		return Command{}, err
	}
	if fields[0] == "ACTION" {
		return parseAction(topic, fields[2])
	}
	return parseFeedback(topic, fields[2])
}

func splitCommand(s string) ([]string, Topic, error) {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return nil, TopicNone, fmt.Errorf("%w: %q has %d tokens", ErrMalformedCommand, s, len(fields))
	}
	topic, err := ParseTopic(fields[1])
	if err != nil {
		return nil, TopicNone, err
	}
	return fields, topic, nil
}

func parseAction(topic Topic, name string) (Command, error) {
	action, err := ParseAction(name)
	if err != nil {
		return Command{}, err
	}
	return ActionCommand(topic, action), nil
}

func parseFeedback(topic Topic, name string) (Command, error) {
	feedback, err := ParseFeedback(name)
	if err != nil {
		return Command{}, err
	}
	return FeedbackCommand(topic, feedback), nil
}

// IsAction reports whether c is a robot command.
func (c Command) IsAction() bool {
	return c.Role == RoleAction
}

func (c Command) String() string {
	switch c.Role {
	case RoleAction:
		return fmt.Sprintf("ACTION %s %s", c.Topic, c.Action)
	case RoleFeedback:
		return fmt.Sprintf("FEEDBACK %s %s", c.Topic, c.Feedback)
	default:
		return ""
	}
}
