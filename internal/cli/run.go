package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/senglish"
	"github.com/aretw0/senglish/internal/presentation/tui"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/runner"
)

// ErrChainFailed is returned in strict mode when a segment did not succeed.
var ErrChainFailed = errors.New("one or more commands failed")

// RunOptions contains all the configuration for the Run command.
type RunOptions struct {
	Path      string // Script file, "-" for Stdin
	SessionID string
	JSON      bool
	Tree      bool
	Verbose   bool
	Strict    bool
	Watch     bool
	Out       io.Writer
	In        io.Reader
}

// ReadScript loads a script. Lines starting with '#' are comments.
func ReadScript(path string, in io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		if in == nil {
			in = os.Stdin
		}
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read script: %w", err)
	}
	return stripComments(string(data)), nil
}

func stripComments(src string) string {
	lines := strings.Split(src, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if strings.HasPrefix(strings.TrimSpace(l), "#") {
			continue
		}
		kept = append(kept, l)
	}
	return strings.Join(kept, "\n")
}

// Execute handles the 'run' command logic, dispatching to a single run or Watch mode.
func Execute(ctx context.Context, stack *Stack, opts RunOptions) error {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.SessionID == "" {
		opts.SessionID = "script"
	}
	if opts.Watch {
		if opts.Path == "-" {
			return fmt.Errorf("--watch needs a file, not stdin")
		}
		return RunWatch(ctx, stack, opts)
	}

	src, err := ReadScript(opts.Path, opts.In)
	if err != nil {
		return err
	}
	return handleExecutionError(runOnce(ctx, stack, opts, src))
}

// runOnce executes src in a fresh interpreter and presents the result.
func runOnce(ctx context.Context, stack *Stack, opts RunOptions, src string) error {
	text, err := runner.SanitizeInputLimit(src, stack.Config.MaxScriptSize)
	if err != nil {
		return err
	}

	var hooks []domain.LifecycleHooks
	if !opts.JSON {
		hooks = append(hooks, diagnosticPrinter(opts.Out))
	}
	in, err := stack.Interpreter(opts.SessionID, hooks...)
	if err != nil {
		return err
	}
	defer in.Close()

	report, err := in.Cmd(ctx, text)
	if err != nil {
		return err
	}
	// Chains submitted by handlers (for example "trigger") finish before we print.
	if err := in.Sync(ctx); err != nil {
		return err
	}

	if err := present(ctx, opts, in, report); err != nil {
		return err
	}
	if opts.Strict && !report.OK() {
		return ErrChainFailed
	}
	return nil
}

type runOutput struct {
	OK       bool             `json:"ok"`
	Outcomes []domain.Outcome `json:"outcomes"`
	Tree     any              `json:"tree,omitempty"`
}

func present(ctx context.Context, opts RunOptions, in *senglish.Interpreter, report domain.Report) error {
	if opts.JSON {
		out := runOutput{OK: report.OK(), Outcomes: report.Outcomes}
		if opts.Tree {
			snap, err := in.Inspect(ctx)
			if err != nil {
				return err
			}
			out.Tree = snap
		}
		enc := json.NewEncoder(opts.Out)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	render := tui.ColorReport
	if opts.Verbose {
		render = tui.VerboseReport
	}
	fmt.Fprint(opts.Out, render(report))

	if opts.Tree {
		snap, err := in.Inspect(ctx)
		if err != nil {
			return err
		}
		tui.RenderTree(opts.Out, snap)
	}
	return nil
}
