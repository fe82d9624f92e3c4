package runtime_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/senglish/internal/runtime"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startLoop(t *testing.T) (*runtime.Loop, context.CancelFunc) {
	t.Helper()
	loop := runtime.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = loop.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		<-loop.Stopped()
	})
	return loop, cancel
}

func TestLoop_FIFO(t *testing.T) {
	loop, _ := startLoop(t)

	var mu sync.Mutex
	var order []int
	tasks := make([]*runtime.Task, 0, 10)
	for i := 0; i < 10; i++ {
		i := i
		task := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
			return domain.Report{}, nil
		})
		require.NoError(t, loop.Submit(task))
		tasks = append(tasks, task)
	}

	for _, task := range tasks {
		_, err := task.Wait(context.Background())
		require.NoError(t, err)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestLoop_ReentrantSubmitRunsAfterCurrent(t *testing.T) {
	loop, _ := startLoop(t)

	var order []string
	var inner *runtime.Task

	outer := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
		order = append(order, "outer-start")
		inner = runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
			order = append(order, "inner")
			return domain.Report{}, nil
		})
		// Must not deadlock even though the loop is busy running us.
		if err := loop.Submit(inner); err != nil {
			return domain.Report{}, err
		}
		order = append(order, "outer-end")
		return domain.Report{}, nil
	})
	require.NoError(t, loop.Submit(outer))

	_, err := outer.Wait(context.Background())
	require.NoError(t, err)
	_, err = inner.Wait(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"outer-start", "outer-end", "inner"}, order)
}

func TestLoop_WaitCancelDoesNotCancelTask(t *testing.T) {
	loop, _ := startLoop(t)

	release := make(chan struct{})
	task := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
		<-release
		return domain.Report{Outcomes: []domain.Outcome{{Status: domain.StatusOK}}}, nil
	})
	require.NoError(t, loop.Submit(task))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := task.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	close(release)
	report, err := task.Wait(context.Background())
	require.NoError(t, err)
	assert.Len(t, report.Outcomes, 1)
}

func TestLoop_PanicIsContained(t *testing.T) {
	loop, _ := startLoop(t)

	bad := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
		panic("oops")
	})
	good := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
		return domain.Report{}, nil
	})
	require.NoError(t, loop.Submit(bad))
	require.NoError(t, loop.Submit(good))

	_, err := bad.Wait(context.Background())
	assert.ErrorContains(t, err, "oops")
	_, err = good.Wait(context.Background())
	assert.NoError(t, err)
}

func TestLoop_CloseRejectsPendingAndFuture(t *testing.T) {
	loop := runtime.NewLoop()
	ctx, cancel := context.WithCancel(context.Background())

	started := make(chan struct{})
	blocking := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
		close(started)
		<-ctx.Done()
		return domain.Report{}, ctx.Err()
	})
	queued := runtime.NewTask(func(ctx context.Context) (domain.Report, error) {
		t.Error("queued task must not run after close")
		return domain.Report{}, nil
	})

	require.NoError(t, loop.Submit(blocking))
	require.NoError(t, loop.Submit(queued))

	go func() { _ = loop.Run(ctx) }()
	<-started
	cancel()
	<-loop.Stopped()

	_, err := blocking.Wait(context.Background())
	assert.ErrorIs(t, err, context.Canceled)

	_, err = queued.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrClosed)

	late := runtime.NewTask(func(ctx context.Context) (domain.Report, error) { return domain.Report{}, nil })
	err = loop.Submit(late)
	assert.True(t, errors.Is(err, domain.ErrClosed))
	_, err = late.Wait(context.Background())
	assert.ErrorIs(t, err, domain.ErrClosed)
}

func TestLoop_RunTwice(t *testing.T) {
	loop, _ := startLoop(t)

	// A finished task proves the first Run is consuming.
	task := runtime.NewTask(func(ctx context.Context) (domain.Report, error) { return domain.Report{}, nil })
	require.NoError(t, loop.Submit(task))
	_, err := task.Wait(context.Background())
	require.NoError(t, err)

	assert.ErrorIs(t, loop.Run(context.Background()), runtime.ErrLoopRunning)
}
