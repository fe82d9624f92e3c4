package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventCommandStart EventType = "command_start"
	EventCommandEnd   EventType = "command_end"
	EventDiagnostic   EventType = "diagnostic"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// CommandEvent represents the start or end of a segment execution.
type CommandEvent struct {
	EventBase
	Command Command `json:"command"`
	// Outcome is only set on EventCommandEnd.
	Outcome *Outcome `json:"outcome,omitempty"`
}

// DiagnosticEvent carries a diagnostic to observers.
type DiagnosticEvent struct {
	EventBase
	Diagnostic Diagnostic `json:"diagnostic"`
}

// LifecycleHooks defines callbacks for dispatcher observability.
type LifecycleHooks struct {
	OnCommandStart func(context.Context, *CommandEvent)
	OnCommandEnd   func(context.Context, *CommandEvent)
	OnDiagnostic   func(context.Context, *DiagnosticEvent)
}

// Merge returns hooks that call h first and then other.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnCommandStart: chainCommand(h.OnCommandStart, other.OnCommandStart),
		OnCommandEnd:   chainCommand(h.OnCommandEnd, other.OnCommandEnd),
		OnDiagnostic:   chainDiagnostic(h.OnDiagnostic, other.OnDiagnostic),
	}
}

func chainCommand(a, b func(context.Context, *CommandEvent)) func(context.Context, *CommandEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *CommandEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}

func chainDiagnostic(a, b func(context.Context, *DiagnosticEvent)) func(context.Context, *DiagnosticEvent) {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	return func(ctx context.Context, e *DiagnosticEvent) {
		a(ctx, e)
		b(ctx, e)
	}
}
