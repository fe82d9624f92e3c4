package senglish

import (
	"log/slog"
	"time"

	"github.com/aretw0/senglish/pkg/commands"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/ports"
)

// Config holds the interpreter behavior flags.
type Config struct {
	// Debug enables logging of informational diagnostics.
	Debug bool
	// Warnings enables logging of failures and warnings.
	Warnings bool
	// InputNode names the element whose value feeds INPUT_VALUE.
	InputNode string
	// FetchTimeout bounds each "fetch" command.
	FetchTimeout time.Duration
}

// DefaultConfig returns the defaults: everything logged, "taskinput" as input node.
func DefaultConfig() Config {
	return Config{
		Debug:        true,
		Warnings:     true,
		InputNode:    commands.DefaultInputNode,
		FetchTimeout: 10 * time.Second,
	}
}

// Option defines a functional option for configuring the Interpreter.
type Option func(*Interpreter)

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(in *Interpreter) {
		in.logger = logger
	}
}

// WithEnvironment replaces the default in-memory document.
func WithEnvironment(env ports.Environment) Option {
	return func(in *Interpreter) {
		in.env = env
	}
}

// WithStateBag replaces the default in-memory state bag.
func WithStateBag(bag ports.StateBag) Option {
	return func(in *Interpreter) {
		in.state = bag
	}
}

// WithFetcher replaces the default HTTP fetcher.
func WithFetcher(f ports.Fetcher) Option {
	return func(in *Interpreter) {
		in.fetcher = f
	}
}

// WithLifecycleHooks registers observability hooks. Multiple calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(in *Interpreter) {
		in.hooks = in.hooks.Merge(hooks)
	}
}

// WithConfig sets the behavior flags.
func WithConfig(cfg Config) Option {
	return func(in *Interpreter) {
		in.config = cfg
	}
}

// WithoutBuiltins starts with an empty vocabulary.
func WithoutBuiltins() Option {
	return func(in *Interpreter) {
		in.builtins = false
	}
}

// WithTokenGenerator overrides the UNIQUE_ID generator.
func WithTokenGenerator(fn func() string) Option {
	return func(in *Interpreter) {
		in.newToken = fn
	}
}
