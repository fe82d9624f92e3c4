package commands

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/ports"
	"github.com/google/uuid"
)

// DefaultInputNode is the element whose value feeds INPUT_VALUE when an event carries none.
const DefaultInputNode = "taskinput"

// Env is the capability set shared by the built-in handlers.
type Env struct {
	Environment ports.Environment
	State       ports.StateBag
	Fetcher     ports.Fetcher

	// Submit enqueues an instruction chain behind the current one.
	Submit func(text string)
	// Report publishes a non-fatal diagnostic (warnings, info).
	Report func(ctx context.Context, d domain.Diagnostic)
	// NewToken generates the replacement for UNIQUE_ID.
	NewToken func() string
	// InputNode names the fallback element for INPUT_VALUE.
	InputNode string
}

func (e *Env) report(ctx context.Context, d domain.Diagnostic) {
	if e.Report != nil {
		e.Report(ctx, d)
	}
}

func (e *Env) token() string {
	if e.NewToken != nil {
		return e.NewToken()
	}
	return uuid.NewString()
}

func (e *Env) inputNode() string {
	if e.InputNode != "" {
		return e.InputNode
	}
	return DefaultInputNode
}

// Registrar is the subset of the registry used to install commands.
type Registrar interface {
	Register(name string, aliases []string, h domain.Handler) error
}

// Builtins returns every built-in handler bound to env.
func Builtins(env *Env) []domain.Handler {
	return []domain.Handler{
		&Create{env: env},
		&Style{env: env},
		&AddClass{env: env},
		&RemoveClass{env: env},
		&ToggleClass{env: env},
		&Insert{env: env},
		&SetAttr{env: env},
		&When{env: env},
		&Animate{env: env},
		&Wait{},
		&Fetch{env: env},
		&Remove{env: env},
		&Trigger{env: env},
	}
}

// Register installs the built-in vocabulary into reg.
func Register(reg Registrar, env *Env) error {
	for _, h := range Builtins(env) {
		u := h.(domain.Describer).Usage()
		if err := reg.Register(u.Name, u.Aliases, h); err != nil {
			return fmt.Errorf("register %s: %w", u.Name, err)
		}
	}
	return nil
}

// match applies re to the command text or reports the expected pattern.
func match(re *regexp.Regexp, u domain.Usage, text string) ([]string, error) {
	parts := re.FindStringSubmatch(text)
	if parts == nil {
		return nil, syntaxError(u)
	}
	return parts, nil
}

func syntaxError(u domain.Usage) error {
	return fmt.Errorf("%w. Use: %s", domain.ErrSyntax, u.Pattern)
}

func notFound(id, purpose string) error {
	return fmt.Errorf("element %q %w for %s", id, domain.ErrNotFound, purpose)
}

// sleep blocks for d or until ctx ends.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
