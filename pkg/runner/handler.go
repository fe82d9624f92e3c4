package runner

import (
	"context"

	"github.com/aretw0/senglish/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (terminal) and JSON (structured) modes.
type IOHandler interface {
	// Input reads the next instruction. io.EOF ends the session.
	Input(ctx context.Context) (string, error)

	// Output presents the report of a finished chain.
	Output(ctx context.Context, report domain.Report) error

	// SystemOutput presents a meta-message (errors, notices) distinct from reports.
	SystemOutput(ctx context.Context, msg string) error
}

// Executor runs instruction chains. *senglish.Interpreter satisfies it.
type Executor interface {
	Cmd(ctx context.Context, text string) (domain.Report, error)
}
