package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"

	"github.com/aretw0/senglish/internal/logging"
)

// MetaCommand answers a ":name args" line. The returned text is shown as a system message.
type MetaCommand func(ctx context.Context, args string) (string, error)

// Runner reads instructions, runs them, and presents the reports.
type Runner struct {
	Handler  IOHandler
	Logger   *slog.Logger
	Meta     map[string]MetaCommand
	Headless bool

	interceptors []Interceptor
}

// NewRunner creates a Runner. Without WithInputHandler it uses a TextHandler on Stdin/Stdout.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	return r
}

// Run executes the read-eval loop until EOF, "exit"/"quit", or ctx ends.
// An interrupt while a chain runs stops waiting for it; the chain itself finishes in the background.
func (r *Runner) Run(ctx context.Context, exec Executor) error {
	signals := r.signals(ctx)
	defer signals.Stop()

	interceptor := MultiInterceptor(r.interceptors...)

	for {
		line, err := r.Handler.Input(signals.Context())
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			return nil
		}

		if strings.HasPrefix(line, ":") {
			if err := r.runMeta(ctx, line); err != nil {
				return err
			}
			continue
		}

		clean, err := interceptor(ctx, line)
		if err != nil {
			if err := r.Handler.SystemOutput(ctx, "Error: "+err.Error()); err != nil {
				return err
			}
			continue
		}

		report, err := exec.Cmd(signals.Context(), clean)
		if err != nil {
			if signals.Interrupted() {
				signals.Reset()
				if err := r.Handler.SystemOutput(ctx, "Interrupted. The chain keeps running in the background."); err != nil {
					return err
				}
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		if err := r.Handler.Output(ctx, report); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

func (r *Runner) runMeta(ctx context.Context, line string) error {
	name, args, _ := strings.Cut(strings.TrimPrefix(line, ":"), " ")
	fn, ok := r.Meta[name]
	if !ok {
		return r.Handler.SystemOutput(ctx, fmt.Sprintf("Unknown meta command :%s (available: %s)", name, r.metaNames()))
	}
	out, err := fn(ctx, strings.TrimSpace(args))
	if err != nil {
		return r.Handler.SystemOutput(ctx, "Error: "+err.Error())
	}
	if out == "" {
		return nil
	}
	return r.Handler.SystemOutput(ctx, out)
}

func (r *Runner) metaNames() string {
	names := make([]string, 0, len(r.Meta))
	for n := range r.Meta {
		names = append(names, ":"+n)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// signals returns a signal-aware context source. Headless runs only follow ctx.
func (r *Runner) signals(ctx context.Context) *SignalManager {
	if r.Headless {
		c, cancel := context.WithCancel(ctx)
		return &SignalManager{parent: ctx, ctx: c, cancel: cancel}
	}
	return NewSignalManager(ctx)
}
