package commands

import (
	"context"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/aretw0/senglish/pkg/domain"
)

// maxSeconds is the longest wait or animation a duration can hold.
const maxSeconds = float64(math.MaxInt64 / int64(time.Second))

// DefaultAnimation is used when animate has no "for <n>s" clause.
const DefaultAnimation = 500 * time.Millisecond

var (
	animateRe = regexp.MustCompile(`(?i)^animate\s+([\w-]+)\s+with\s+([\w-]+)(?:\s+for\s+([\d.]+)s)?`)
	keepRe    = regexp.MustCompile(`(?i)\band\s+keep\b`)
	waitRe    = regexp.MustCompile(`(?i)^wait\s+([\d.]+)\s*s`)
)

// Animate adds a class for a duration, then removes it unless "and keep" is given.
// It blocks the chain for the duration.
type Animate struct{ env *Env }

func (a *Animate) Usage() domain.Usage {
	return domain.Usage{
		Name:    "animate",
		Pattern: "animate <id> with <class> [for <n>s] [and keep]",
		Summary: "Apply a class for a while (default 0.5s).",
	}
}

func (a *Animate) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(animateRe, a.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	id, class := parts[1], parts[2]

	d := DefaultAnimation
	if parts[3] != "" {
		if d, err = seconds(parts[3], a.Usage()); err != nil {
			return err
		}
	}

	el, ok := a.env.Environment.Lookup(id)
	if !ok {
		return notFound(id, "animation")
	}

	el.AddClass(class)
	if err := sleep(ctx, d); err != nil {
		return err
	}
	if !keepRe.MatchString(cmd.Text) {
		el.RemoveClass(class)
	}
	return nil
}

// Wait pauses the chain.
type Wait struct{}

func (w *Wait) Usage() domain.Usage {
	return domain.Usage{
		Name:    "wait",
		Pattern: "wait <n>s",
		Summary: "Pause the chain for n seconds.",
	}
}

func (w *Wait) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(waitRe, w.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	d, err := seconds(parts[1], w.Usage())
	if err != nil {
		return err
	}
	return sleep(ctx, d)
}

func seconds(s string, u domain.Usage) (time.Duration, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, syntaxError(u)
	}
	// Larger values would overflow time.Duration.
	if f > maxSeconds {
		return 0, syntaxError(u)
	}
	return time.Duration(f * float64(time.Second)), nil
}
