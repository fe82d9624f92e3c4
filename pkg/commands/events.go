package commands

import (
	"context"
	"regexp"
	"strings"

	"github.com/aretw0/senglish/pkg/domain"
)

const (
	// InputPlaceholder is replaced by the quoted input value when a listener fires.
	InputPlaceholder = "INPUT_VALUE"
	// TokenPlaceholder is replaced by a fresh unique token when a listener fires.
	TokenPlaceholder = "UNIQUE_ID"
)

var (
	whenRe    = regexp.MustCompile(`(?is)^when\s+([\w-]+)\s+is\s+(\w+)\s+do\s+(.+)\s+end$`)
	triggerRe = regexp.MustCompile(`(?i)^trigger\s+(\w+)\s+on\s+([\w-]+)(?:\s+with\s+value\s+"([^"]*)")?`)
)

// WhenBody returns the chain bound by a well-formed when block.
func WhenBody(text string) (string, bool) {
	parts := whenRe.FindStringSubmatch(strings.TrimSpace(text))
	if parts == nil {
		return "", false
	}
	return parts[3], true
}

// When binds an instruction chain to an element event.
// The chain is re-submitted to the interpreter each time the event fires.
type When struct{ env *Env }

func (w *When) Usage() domain.Usage {
	return domain.Usage{
		Name:    "when",
		Pattern: "when <id> is <event> do <chain> end",
		Summary: "Run a chain whenever an element event fires.",
	}
}

func (w *When) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(whenRe, w.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	id, event, action := parts[1], parts[2], parts[3]

	el, ok := w.env.Environment.Lookup(id)
	if !ok {
		return notFound(id, "event binding")
	}

	submit := strings.EqualFold(event, "submit")
	el.On(event, func(ctx context.Context, e *domain.Event) {
		if submit {
			e.PreventDefault()
		}
		value := w.inputValue(e)
		if submit && strings.TrimSpace(value) == "" {
			return
		}
		final := strings.ReplaceAll(action, InputPlaceholder, `"`+value+`"`)
		final = strings.ReplaceAll(final, TokenPlaceholder, w.env.token())
		if w.env.Submit != nil {
			w.env.Submit(final)
		}
	})
	return nil
}

func (w *When) inputValue(e *domain.Event) string {
	if e.Value != "" {
		return e.Value
	}
	if in, ok := w.env.Environment.Lookup(w.env.inputNode()); ok {
		return in.Value()
	}
	return ""
}

// Trigger fires an event on an element, as a user interaction would.
type Trigger struct{ env *Env }

func (t *Trigger) Usage() domain.Usage {
	return domain.Usage{
		Name:    "trigger",
		Pattern: `trigger <event> on <id> [with value "..."]`,
		Summary: "Fire an element event, optionally carrying an input value.",
	}
}

func (t *Trigger) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(triggerRe, t.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	event, id, value := parts[1], parts[2], parts[3]
	return t.env.Environment.Dispatch(ctx, id, &domain.Event{Type: event, Value: value})
}
