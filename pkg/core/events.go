package core

import "time"

// Event is the interface for all rule engine events.
type Event interface {
	eventMarker()
}

// RuleMatched is emitted when every condition of a rule held.
type RuleMatched struct {
	Rule      string
	Event     string
	Timestamp time.Time
}

func (*RuleMatched) eventMarker() {}

// RuleSkipped is emitted when a condition of a rule returned false.
type RuleSkipped struct {
	Rule      string
	Event     string
	Condition string
	Timestamp time.Time
}

func (*RuleSkipped) eventMarker() {}

// RuleFailed is emitted when a condition or action of a rule failed.
type RuleFailed struct {
	Rule      string
	Event     string
	Error     error
	Timestamp time.Time
}

func (*RuleFailed) eventMarker() {}

// RuleFired is emitted after all actions of a rule completed.
type RuleFired struct {
	Rule      string
	Event     string
	Duration  time.Duration
	Timestamp time.Time
}

func (*RuleFired) eventMarker() {}
