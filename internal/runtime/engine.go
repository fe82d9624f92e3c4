package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/senglish/internal/logging"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/dsl"
)

// Resolver finds the handler registered for a command name.
type Resolver interface {
	Lookup(name string) (domain.Handler, bool)
}

// Engine dispatches segments to their handlers and isolates failures.
// It never returns an error and never panics; every failure becomes a diagnostic.
type Engine struct {
	resolver Resolver
	logger   *slog.Logger
	hooks    domain.LifecycleHooks

	// debug enables logging of info diagnostics.
	debug bool
	// warnings enables logging of failure and warning diagnostics.
	warnings bool
}

// Option configures the Engine.
type Option func(*Engine)

// WithLogger sets the logger used for diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observers for command execution.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithVerbosity controls which diagnostics reach the log.
// Hooks always receive every diagnostic.
func WithVerbosity(debug, warnings bool) Option {
	return func(e *Engine) {
		e.debug = debug
		e.warnings = warnings
	}
}

// NewEngine creates a dispatcher over the given resolver.
func NewEngine(resolver Resolver, opts ...Option) *Engine {
	e := &Engine{
		resolver: resolver,
		logger:   logging.NewNop(),
		debug:    true,
		warnings: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run executes the segments strictly in order. A failing segment aborts only itself.
func (e *Engine) Run(ctx context.Context, segments []string) domain.Report {
	report := domain.Report{Outcomes: make([]domain.Outcome, 0, len(segments))}
	for _, seg := range segments {
		report.Outcomes = append(report.Outcomes, e.Execute(ctx, seg))
	}
	return report
}

// Execute resolves the first token of text and runs its handler.
func (e *Engine) Execute(ctx context.Context, text string) (out domain.Outcome) {
	cmd := domain.Command{Name: dsl.CommandName(text), Text: text}
	out = domain.Outcome{Command: cmd, Status: domain.StatusOK}

	start := time.Now()
	e.emitCommand(ctx, domain.EventCommandStart, cmd, nil)
	defer func() {
		out.Duration = time.Since(start)
		e.emitCommand(ctx, domain.EventCommandEnd, cmd, &out)
	}()

	handler, ok := e.resolver.Lookup(cmd.Name)
	if !ok {
		out.Status = domain.StatusUnknown
		out.Error = fmt.Sprintf("%s: %s", domain.ErrUnknownCommand, cmd.Name)
		e.Emit(ctx, domain.Diagnostic{
			Kind:    domain.DiagnosticUnknown,
			Command: cmd.Name,
			Message: "Unknown command: " + cmd.Name,
			Err:     domain.ErrUnknownCommand,
		})
		return out
	}

	if err := invoke(ctx, handler, cmd); err != nil {
		out.Status = domain.StatusFailed
		out.Error = err.Error()
		e.Emit(ctx, domain.Diagnostic{
			Kind:    Classify(err),
			Command: cmd.Name,
			Message: fmt.Sprintf("Error executing command %q: %v", cmd.Name, err),
			Err:     err,
		})
	}
	return out
}

// Emit publishes a diagnostic to the log (subject to verbosity) and to the hooks.
func (e *Engine) Emit(ctx context.Context, d domain.Diagnostic) {
	if (d.IsWarning() && e.warnings) || (!d.IsWarning() && e.debug) {
		attrs := []any{"kind", string(d.Kind)}
		if d.Command != "" {
			attrs = append(attrs, "command", d.Command)
		}
		if d.Err != nil {
			attrs = append(attrs, "err", d.Err)
		}
		e.logger.Log(ctx, d.Level(), d.Message, attrs...)
	}

	if e.hooks.OnDiagnostic != nil {
		e.hooks.OnDiagnostic(ctx, &domain.DiagnosticEvent{
			EventBase: domain.EventBase{
				Timestamp: time.Now(),
				Type:      domain.EventDiagnostic,
			},
			Diagnostic: d,
		})
	}
}

// Classify maps a handler error to a diagnostic kind.
func Classify(err error) domain.DiagnosticKind {
	switch {
	case errors.Is(err, domain.ErrSyntax):
		return domain.DiagnosticSyntax
	case errors.Is(err, domain.ErrNotFound):
		return domain.DiagnosticLookup
	case errors.Is(err, domain.ErrUnknownCommand):
		return domain.DiagnosticUnknown
	default:
		return domain.DiagnosticRuntime
	}
}

func invoke(ctx context.Context, h domain.Handler, cmd domain.Command) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
	}()
	return h.Handle(ctx, cmd)
}

func (e *Engine) emitCommand(ctx context.Context, typ domain.EventType, cmd domain.Command, out *domain.Outcome) {
	hook := e.hooks.OnCommandStart
	if typ == domain.EventCommandEnd {
		hook = e.hooks.OnCommandEnd
	}
	if hook == nil {
		return
	}
	hook(ctx, &domain.CommandEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: typ},
		Command:   cmd,
		Outcome:   out,
	})
}
