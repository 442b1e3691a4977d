package rule

import (
	"github.com/jdziat/simple-eca/pkg/keys"
)

// Step is one condition or action of a rule.
type Step struct {
	Key string `json:"key"`
	// Args, when set, are passed as explicit inputs and Key must be bare.
	Args []string `json:"args,omitempty"`
}

// Name returns the callable key without inline arguments.
func (s Step) Name() string {
	name, _, _ := keys.Parse(s.Key)
	return name
}

// Inputs returns the explicit invocation inputs of the step.
func (s Step) Inputs() []any {
	return keys.Args(s.Args)
}

// String renders the step in inline key form.
func (s Step) String() string {
	if len(s.Args) == 0 {
		return s.Key
	}
	return keys.Format(s.Key, s.Args...)
}

// Rule binds an event to conditions and actions.
type Rule struct {
	ID         string `json:"id,omitempty"`
	Name       string `json:"name"`
	Event      string `json:"event"`
	Priority   int    `json:"priority,omitempty"`
	Disabled   bool   `json:"disabled,omitempty"`
	Conditions []Step `json:"conditions,omitempty"`
	Actions    []Step `json:"actions"`
}

// Set is the on-disk form of a rule collection.
type Set struct {
	Rules []Rule `json:"rules"`
}

// FireResult reports what happened when an event fired.
type FireResult struct {
	Event string
	// Matched lists rules whose conditions all held, in evaluation order.
	Matched []string
	// Fired lists rules whose actions all completed.
	Fired []string
}
