package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/senglish/internal/logging"
	"github.com/aretw0/senglish/pkg/domain"
)

// ErrLoopRunning is returned when Run is called on a loop that is already running.
var ErrLoopRunning = errors.New("loop already running")

// TaskFunc is the body of a Task. It runs on the loop goroutine.
type TaskFunc func(ctx context.Context) (domain.Report, error)

// Task is a future for one unit of work on the Loop.
type Task struct {
	fn   TaskFunc
	done chan struct{}

	report domain.Report
	err    error
}

// NewTask wraps fn as a pending task.
func NewTask(fn TaskFunc) *Task {
	return &Task{fn: fn, done: make(chan struct{})}
}

// Done is closed once the task has finished or was rejected.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Wait blocks until the task finishes or ctx ends.
// A cancelled ctx stops the wait, not the task.
func (t *Task) Wait(ctx context.Context) (domain.Report, error) {
	select {
	case <-t.done:
		return t.report, t.err
	case <-ctx.Done():
		return domain.Report{}, ctx.Err()
	}
}

func (t *Task) finish(report domain.Report, err error) {
	t.report = report
	t.err = err
	close(t.done)
}

// Loop is a single-consumer task queue. Tasks run one at a time in submission order.
// Submit never blocks, so running tasks may enqueue follow-up work.
type Loop struct {
	mu      sync.Mutex
	queue   []*Task
	closed  bool
	running bool

	wake    chan struct{}
	stopped chan struct{}
	logger  *slog.Logger
}

// LoopOption configures the Loop.
type LoopOption func(*Loop)

// WithLoopLogger sets the loop logger.
func WithLoopLogger(logger *slog.Logger) LoopOption {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoop creates an idle loop. Call Run to start consuming.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake:    make(chan struct{}, 1),
		stopped: make(chan struct{}),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Submit enqueues t. On a closed loop the task is rejected with domain.ErrClosed.
func (l *Loop) Submit(t *Task) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		t.finish(domain.Report{}, domain.ErrClosed)
		return domain.ErrClosed
	}
	l.queue = append(l.queue, t)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return nil
}

// Run consumes tasks until ctx ends. Tasks still queued at that point are
// rejected with domain.ErrClosed.
func (l *Loop) Run(ctx context.Context) error {
	l.mu.Lock()
	if l.running || l.closed {
		l.mu.Unlock()
		return ErrLoopRunning
	}
	l.running = true
	l.mu.Unlock()

	defer close(l.stopped)
	defer l.shutdown()

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if t, ok := l.next(); ok {
			l.runTask(ctx, t)
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

// Stopped is closed after Run has returned and the queue was drained.
func (l *Loop) Stopped() <-chan struct{} {
	return l.stopped
}

func (l *Loop) next() (*Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	t := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return t, true
}

func (l *Loop) runTask(ctx context.Context, t *Task) {
	var (
		report domain.Report
		err    error
	)
	func() {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("task panicked: %v", r)
				l.logger.Error("task panicked", "panic", r)
			}
		}()
		report, err = t.fn(ctx)
	}()
	t.finish(report, err)
}

func (l *Loop) shutdown() {
	l.mu.Lock()
	l.closed = true
	pending := l.queue
	l.queue = nil
	l.mu.Unlock()

	if len(pending) > 0 {
		l.logger.Debug("rejecting queued tasks", "count", len(pending))
	}
	for _, t := range pending {
		t.finish(domain.Report{}, domain.ErrClosed)
	}
}
