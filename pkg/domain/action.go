package domain

import "fmt"

// Action is a robot-side scripted intent.
type Action int

const (
	ActionNone Action = iota
	ActionIntro
	ActionFirstRedeem
	ActionSecondRedeem
	ActionAnswer
	ActionRepeat
	ActionStop
)

func (a Action) String() string {
	switch a {
	case ActionIntro:
		return "INTRO"
	case ActionFirstRedeem:
		return "FIRST_REDEEM"
	case ActionSecondRedeem:
		return "SECOND_REDEEM"
	case ActionAnswer:
		return "ANSWER"
	case ActionRepeat:
		return "REPEAT"
	case ActionStop:
		return "STOP"
	default:
		return ""
	}
}

// Valid reports whether a is one of the closed set of actions.
func (a Action) Valid() bool {
	return a >= ActionIntro && a <= ActionStop
}

// IsRedeem reports whether a is an attempt to re-engage the user on a topic.
func (a Action) IsRedeem() bool {
	return a == ActionFirstRedeem || a == ActionSecondRedeem
}

// IsTerminal reports whether a ends the session.
func (a Action) IsTerminal() bool {
	return a == ActionStop
}

// ParseAction maps an action name to its Action.
func ParseAction(name string) (Action, error) {
	switch name {
	case "INTRO":
		return ActionIntro, nil
	case "FIRST_REDEEM":
		return ActionFirstRedeem, nil
	case "SECOND_REDEEM":
		return ActionSecondRedeem, nil
	case "ANSWER":
		return ActionAnswer, nil
	case "REPEAT":
		return ActionRepeat, nil
	case "STOP":
		return ActionStop, nil
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

func (a Action) MarshalText() ([]byte, error) {
	if !a.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownAction, int(a))
	}
	return []byte(a.String()), nil
}

func (a *Action) UnmarshalText(b []byte) error {
	parsed, err := ParseAction(string(b))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Result tags the outcome of a session. The tracker never sets it; response
// engine scripts do.
type Result int

const (
	ResultNone Result = iota
	ResultContact
	ResultAppoint
)

func (r Result) String() string {
	switch r {
	case ResultContact:
		return "CONTACT"
	case ResultAppoint:
		return "APPOINT"
	default:
		return ""
	}
}

// ParseResult maps a result name to its Result.
func ParseResult(name string) (Result, error) {
	switch name {
	case "CONTACT":
		return ResultContact, nil
	case "APPOINT":
		return ResultAppoint, nil
	}
	return ResultNone, fmt.Errorf("%w: %q", ErrUnknownResult, name)
}
