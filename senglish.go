package senglish

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/senglish/internal/logging"
	"github.com/aretw0/senglish/internal/runtime"
	"github.com/aretw0/senglish/pkg/adapters/dom"
	"github.com/aretw0/senglish/pkg/adapters/fetch"
	"github.com/aretw0/senglish/pkg/adapters/memory"
	"github.com/aretw0/senglish/pkg/commands"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/dsl"
	"github.com/aretw0/senglish/pkg/ports"
	"github.com/aretw0/senglish/pkg/registry"
	"github.com/google/uuid"
)

// ErrNoSnapshot is returned by Inspect when the environment cannot be snapshotted.
var ErrNoSnapshot = errors.New("environment does not support snapshots")

// Snapshotter is implemented by environments that can render their tree.
type Snapshotter interface {
	Snapshot() dom.Snapshot
}

// Interpreter is the high-level entry point. It owns the registry, the
// environment, the state bag and the execution loop.
// Its methods are safe for concurrent use.
type Interpreter struct {
	registry *registry.Registry
	engine   *runtime.Engine
	loop     *runtime.Loop

	env      ports.Environment
	state    ports.StateBag
	fetcher  ports.Fetcher
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
	config   Config
	builtins bool
	newToken func() string

	cancel    context.CancelFunc
	closeOnce sync.Once
}

// New initializes an Interpreter and starts its loop.
// Call Close to stop it.
func New(opts ...Option) (*Interpreter, error) {
	in := &Interpreter{
		config:   DefaultConfig(),
		builtins: true,
		newToken: uuid.NewString,
	}
	for _, opt := range opts {
		opt(in)
	}

	if in.logger == nil {
		in.logger = logging.NewNop()
	}
	if in.env == nil {
		in.env = dom.New()
	}
	if in.state == nil {
		in.state = memory.NewBag()
	}
	if in.fetcher == nil {
		in.fetcher = fetch.New(fetch.WithTimeout(in.config.FetchTimeout))
	}

	in.registry = registry.NewRegistry()
	in.engine = runtime.NewEngine(in.registry,
		runtime.WithLogger(in.logger),
		runtime.WithLifecycleHooks(in.hooks),
		runtime.WithVerbosity(in.config.Debug, in.config.Warnings),
	)
	in.loop = runtime.NewLoop(runtime.WithLoopLogger(in.logger))

	if in.builtins {
		env := &commands.Env{
			Environment: in.env,
			State:       in.state,
			Fetcher:     in.fetcher,
			Submit:      func(text string) { in.Submit(text) },
			Report:      in.engine.Emit,
			NewToken:    in.newToken,
			InputNode:   in.config.InputNode,
		}
		if err := commands.Register(in.registry, env); err != nil {
			return nil, fmt.Errorf("failed to install builtins: %w", err)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	in.cancel = cancel
	go func() {
		if err := in.loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			in.logger.Error("loop stopped", "err", err)
		}
	}()

	return in, nil
}

// Cmd runs an instruction chain and waits for it to finish.
// It fails only when the interpreter is closed or ctx ends while waiting;
// segment failures are reported in the Report and as diagnostics.
// Handlers must not call Cmd; they use Submit.
func (in *Interpreter) Cmd(ctx context.Context, text string) (domain.Report, error) {
	return in.Submit(text).Wait(ctx)
}

// Submit enqueues an instruction chain and returns immediately.
// Chains submitted while another is running start after it completes.
func (in *Interpreter) Submit(text string) *runtime.Task {
	segments := dsl.Segment(text)
	task := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
		return in.engine.Run(ctx, segments), nil
	})
	if err := in.loop.Submit(task); err != nil {
		in.logger.Debug("chain rejected", "err", err)
	}
	return task
}

// Register adds a handler under name and aliases.
// An invalid registration is reported as a diagnostic and returned.
func (in *Interpreter) Register(name string, aliases []string, h domain.Handler) error {
	if err := in.registry.Register(name, aliases, h); err != nil {
		in.engine.Emit(context.Background(), domain.Diagnostic{
			Kind:    domain.DiagnosticRegistration,
			Command: name,
			Message: "Invalid command registration: " + registrationLabel(name),
			Err:     err,
		})
		return err
	}
	return nil
}

// Trigger fires an environment event on the loop and waits for the listeners.
// Chains submitted by the listeners run afterwards.
func (in *Interpreter) Trigger(ctx context.Context, id, event, value string) error {
	task := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
		return domain.Report{}, in.env.Dispatch(ctx, id, &domain.Event{Type: event, Value: value})
	})
	_ = in.loop.Submit(task)
	_, err := task.Wait(ctx)
	return err
}

// Inspect returns a consistent snapshot of the environment, taken on the loop.
func (in *Interpreter) Inspect(ctx context.Context) (dom.Snapshot, error) {
	s, ok := in.env.(Snapshotter)
	if !ok {
		return dom.Snapshot{}, ErrNoSnapshot
	}

	var snap dom.Snapshot
	task := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
		snap = s.Snapshot()
		return domain.Report{}, nil
	})
	_ = in.loop.Submit(task)
	if _, err := task.Wait(ctx); err != nil {
		return dom.Snapshot{}, err
	}
	return snap, nil
}

// Sync waits until every chain submitted before the call has finished.
func (in *Interpreter) Sync(ctx context.Context) error {
	task := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
		return domain.Report{}, nil
	})
	_ = in.loop.Submit(task)
	_, err := task.Wait(ctx)
	return err
}

// State returns the shared state bag.
func (in *Interpreter) State() ports.StateBag {
	return in.state
}

// Vocabulary documents the registered commands.
func (in *Interpreter) Vocabulary() []domain.Usage {
	return in.registry.Describe()
}

// Close stops the loop. Queued chains are rejected with domain.ErrClosed.
// It is safe to call Close more than once.
func (in *Interpreter) Close() error {
	in.closeOnce.Do(func() {
		in.cancel()
		<-in.loop.Stopped()
	})
	return nil
}

func registrationLabel(name string) string {
	if name == "" {
		return "unnamed"
	}
	return name
}
