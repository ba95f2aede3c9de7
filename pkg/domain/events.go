package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTurn        EventType = "turn"
	EventTopicSwitch EventType = "topic_switch"
	EventEngineCall  EventType = "engine_call"
	EventStop        EventType = "stop"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TurnEvent is emitted after the tracker records a command.
type TurnEvent struct {
	EventBase
	Command Command `json:"-"`
	Text    string  `json:"text"`
	Repeat  bool    `json:"repeat,omitempty"`
}

// SwitchEvent is emitted when the controller changes the current topic.
type SwitchEvent struct {
	EventBase
	From Topic `json:"from"`
	To   Topic `json:"to"`
}

// EngineEvent is emitted after every response engine call.
type EngineEvent struct {
	EventBase
	Command  string        `json:"command"`
	Reply    string        `json:"reply,omitempty"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// StopReason explains why a session reached the terminal state.
type StopReason string

const (
	StopCompleted   StopReason = "completed"
	StopInterrupted StopReason = "interrupted"
	StopFailed      StopReason = "failed"
)

// StopEvent is emitted once, when the controller reaches the terminal state.
type StopEvent struct {
	EventBase
	Reason StopReason `json:"reason"`
	Turns  int        `json:"turns"`
	Err    error      `json:"-"`
}

// LifecycleHooks defines callbacks for session observability.
type LifecycleHooks struct {
	OnTurn        func(context.Context, *TurnEvent)
	OnTopicSwitch func(context.Context, *SwitchEvent)
	OnEngineCall  func(context.Context, *EngineEvent)
	OnStop        func(context.Context, *StopEvent)
}
