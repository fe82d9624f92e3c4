package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/senglish"
	"github.com/aretw0/senglish/internal/presentation/tui"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/runner"
)

// REPLOptions configures an interactive session.
type REPLOptions struct {
	SessionID string
	JSON      bool
	Verbose   bool
	Headless  bool // No banner, no prompt, no signal handling
	In        io.Reader
	Out       io.Writer
}

// RunREPL reads chains line by line and runs them in one interpreter.
func RunREPL(ctx context.Context, stack *Stack, opts REPLOptions) error {
	if opts.In == nil {
		opts.In = os.Stdin
	}
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.SessionID == "" {
		opts.SessionID = "repl"
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

	if !opts.JSON && !opts.Headless {
		tui.PrintBanner(opts.Out)
		printSystemMessage(opts.Out, "Session '%s' active. Type :help for meta commands, exit to quit.", opts.SessionID)
	}

	r := runner.NewRunner(replRunnerOptions(stack, in, opts)...)
	return handleExecutionError(r.Run(ctx, in))
}

func replRunnerOptions(stack *Stack, in *senglish.Interpreter, opts REPLOptions) []runner.Option {
	var handler runner.IOHandler
	if opts.JSON {
		handler = runner.NewJSONHandler(opts.In, opts.Out)
	} else {
		render := tui.ColorReport
		if opts.Verbose {
			render = tui.VerboseReport
		}
		prompt := "> "
		if opts.Headless {
			prompt = ""
		}
		handler = runner.NewTextHandler(opts.In, opts.Out,
			runner.WithTextHandlerRenderer(render),
			runner.WithPrompt(prompt),
		)
	}

	markdown := func(md string) (string, error) { return md, nil }
	if !opts.JSON && !opts.Headless {
		markdown = tui.NewRenderer()
	}

	return []runner.Option{
		runner.WithLogger(stack.Logger),
		runner.WithHeadless(opts.Headless),
		runner.WithInputHandler(handler),
		runner.WithInterceptor(runner.SanitizeInterceptor(stack.Config.MaxInputSize)),
		runner.WithInterceptor(runner.LoggingInterceptor(stack.Logger)),
		runner.WithMetaCommand("tree", treeMeta(in)),
		runner.WithMetaCommand("vocab", vocabMeta(in, markdown)),
		runner.WithMetaCommand("state", stateMeta(in)),
		runner.WithMetaCommand("trigger", triggerMeta(in)),
		runner.WithMetaCommand("help", helpMeta),
	}
}

func treeMeta(in *senglish.Interpreter) runner.MetaCommand {
	return func(ctx context.Context, args string) (string, error) {
		snap, err := in.Inspect(ctx)
		if err != nil {
			return "", err
		}
		var buf bytes.Buffer
		buf.WriteString("\n")
		tui.RenderTree(&buf, snap)
		return strings.TrimRight(buf.String(), "\n"), nil
	}
}

func vocabMeta(in *senglish.Interpreter, render func(string) (string, error)) runner.MetaCommand {
	return func(ctx context.Context, args string) (string, error) {
		out, err := render(tui.VocabularyMarkdown(in.Vocabulary()))
		if err != nil {
			return "", err
		}
		return "\n" + strings.TrimRight(out, "\n"), nil
	}
}

// stateMeta prints one key as JSON, or lists the keys when called without arguments.
func stateMeta(in *senglish.Interpreter) runner.MetaCommand {
	return func(ctx context.Context, args string) (string, error) {
		if args == "" {
			keys, err := in.State().Keys(ctx)
			if err != nil {
				return "", err
			}
			if len(keys) == 0 {
				return "state is empty", nil
			}
			return "keys: " + strings.Join(keys, ", "), nil
		}
		value, err := in.State().Get(ctx, args)
		if err != nil {
			return "", fmt.Errorf("state.%s: %w", args, err)
		}
		data, err := json.Marshal(value)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("state.%s = %s", args, data), nil
	}
}

// triggerMeta fires ":trigger <id> <event> [value]" and waits for the listener chains.
func triggerMeta(in *senglish.Interpreter) runner.MetaCommand {
	return func(ctx context.Context, args string) (string, error) {
		fields := strings.SplitN(args, " ", 3)
		if len(fields) < 2 {
			return "", fmt.Errorf("usage: :trigger <id> <event> [value]")
		}
		value := ""
		if len(fields) == 3 {
			value = strings.TrimSpace(fields[2])
		}
		if err := in.Trigger(ctx, fields[0], fields[1], value); err != nil {
			return "", err
		}
		return "", in.Sync(ctx)
	}
}

func helpMeta(ctx context.Context, args string) (string, error) {
	return strings.Join([]string{
		":tree                        show the element tree",
		":vocab                       list the commands",
		":state [key]                 list state keys or show one value",
		":trigger <id> <event> [val]  fire an event on an element",
		"exit | quit                  leave",
	}, "\n"), nil
}
