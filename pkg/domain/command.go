package domain

import "context"

// Command is a single, syntactically complete segment of an instruction chain.
type Command struct {
	// Name is the lower-cased first token of Text.
	Name string `json:"name"`
	// Text is the full segment, passed verbatim to the handler.
	Text string `json:"text"`
}

// Handler interprets a command and performs environment mutations.
// Returning an error stops only the current segment.
type Handler interface {
	Handle(ctx context.Context, cmd Command) error
}

// HandlerFunc adapts an ordinary function to the Handler interface.
type HandlerFunc func(ctx context.Context, cmd Command) error

// Handle calls f(ctx, cmd).
func (f HandlerFunc) Handle(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// Usage documents a command for help output.
type Usage struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Pattern string   `json:"pattern"`
	Summary string   `json:"summary"`
}

// Describer is implemented by handlers that can document themselves.
type Describer interface {
	Usage() Usage
}
