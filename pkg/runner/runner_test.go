package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/runner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeExecutor records chains and fails those starting with "bad".
type fakeExecutor struct {
	mu    sync.Mutex
	lines []string
	err   error
}

func (f *fakeExecutor) Cmd(ctx context.Context, text string) (domain.Report, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return domain.Report{}, f.err
	}
	f.lines = append(f.lines, text)

	name := strings.Fields(text)[0]
	out := domain.Outcome{Command: domain.Command{Name: name, Text: text}, Status: domain.StatusOK}
	if name == "bad" {
		out.Status = domain.StatusFailed
		out.Error = "boom"
	}
	return domain.Report{Outcomes: []domain.Outcome{out}}, nil
}

func TestRunner_TextSession(t *testing.T) {
	in := strings.NewReader("create div named a\n\n   \nbad thing\nexit\ncreate div named never\n")
	var out bytes.Buffer
	exec := &fakeExecutor{}

	r := runner.NewRunner(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewTextHandler(in, &out, runner.WithPrompt(""))),
	)
	require.NoError(t, r.Run(context.Background(), exec))

	assert.Equal(t, []string{"create div named a", "bad thing"}, exec.lines)
	assert.Equal(t, "failed bad: boom\n", out.String())
}

func TestRunner_StopsOnEOF(t *testing.T) {
	exec := &fakeExecutor{}
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("wait 1s"), &out)),
	)
	require.NoError(t, r.Run(context.Background(), exec))
	// A final line without newline still runs.
	assert.Equal(t, []string{"wait 1s"}, exec.lines)
	assert.Equal(t, "> > ", out.String(), "prompt shown before each read")
}

func TestRunner_InterceptorRejects(t *testing.T) {
	exec := &fakeExecutor{}
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("this is far too long\nshort\n"), &out, runner.WithPrompt(""))),
		runner.WithInterceptor(runner.SanitizeInterceptor(10)),
	)
	require.NoError(t, r.Run(context.Background(), exec))

	assert.Equal(t, []string{"short"}, exec.lines)
	assert.Contains(t, out.String(), "[System] Error: input exceeds maximum allowed size")
}

func TestRunner_MetaCommands(t *testing.T) {
	exec := &fakeExecutor{}
	var out bytes.Buffer
	r := runner.NewRunner(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader(":echo hi there\n:nope\n:fail\n"), &out, runner.WithPrompt(""))),
		runner.WithMetaCommand("echo", func(ctx context.Context, args string) (string, error) { return args, nil }),
		runner.WithMetaCommand("fail", func(ctx context.Context, args string) (string, error) { return "", errors.New("broken") }),
	)
	require.NoError(t, r.Run(context.Background(), exec))

	assert.Empty(t, exec.lines, "meta commands never reach the interpreter")
	got := out.String()
	assert.Contains(t, got, "[System] hi there\n")
	assert.Contains(t, got, "Unknown meta command :nope (available: :echo, :fail)")
	assert.Contains(t, got, "[System] Error: broken")
}

func TestRunner_ExecutorErrorIsFatal(t *testing.T) {
	exec := &fakeExecutor{err: domain.ErrClosed}
	r := runner.NewRunner(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewTextHandler(strings.NewReader("create div named a\n"), &bytes.Buffer{})),
	)
	err := r.Run(context.Background(), exec)
	assert.ErrorIs(t, err, domain.ErrClosed)
}

func TestRunner_JSONSession(t *testing.T) {
	in := strings.NewReader(`"create div named a"` + "\n" + `{"text":"bad x"}` + "\n" + "raw line\n")
	var out bytes.Buffer
	exec := &fakeExecutor{}

	r := runner.NewRunner(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewJSONHandler(in, &out)),
	)
	require.NoError(t, r.Run(context.Background(), exec))
	assert.Equal(t, []string{"create div named a", "bad x", "raw line"}, exec.lines)

	dec := json.NewDecoder(&out)
	var first, second struct {
		OK       bool             `json:"ok"`
		Outcomes []domain.Outcome `json:"outcomes"`
	}
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))
	assert.True(t, first.OK)
	assert.False(t, second.OK)
	assert.Equal(t, "boom", second.Outcomes[0].Error)
}

func TestRunner_ContextCancelEndsSession(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	pr, pw := io.Pipe()
	defer pw.Close()

	r := runner.NewRunner(
		runner.WithHeadless(true),
		runner.WithInputHandler(runner.NewTextHandler(pr, &bytes.Buffer{})),
	)
	assert.NoError(t, r.Run(ctx, &fakeExecutor{}))
}

func TestMultiInterceptor(t *testing.T) {
	upper := func(ctx context.Context, line string) (string, error) { return strings.ToUpper(line), nil }
	reject := func(ctx context.Context, line string) (string, error) {
		if strings.Contains(line, "NO") {
			return "", errors.New("rejected")
		}
		return line, nil
	}

	ic := runner.MultiInterceptor(upper, nil, reject)

	got, err := ic(context.Background(), "wait 1s")
	require.NoError(t, err)
	assert.Equal(t, "WAIT 1S", got)

	_, err = ic(context.Background(), "say no")
	assert.EqualError(t, err, "rejected")
}
