package domain

import "context"

// Event is an environment event (click, submit, input, ...) delivered to listeners.
type Event struct {
	Type   string `json:"type"`
	Target string `json:"target"`
	// Value is the input value carried by the event, if any.
	Value string `json:"value,omitempty"`

	prevented bool
}

// PreventDefault marks the event's default action as cancelled.
func (e *Event) PreventDefault() {
	e.prevented = true
}

// DefaultPrevented reports whether PreventDefault was called.
func (e *Event) DefaultPrevented() bool {
	return e.prevented
}

// Listener is a callback bound to an element event.
type Listener func(ctx context.Context, e *Event)
