// Package validator checks ScriptEnglish scripts without running them.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/senglish/pkg/commands"
	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/dsl"
)

// Issue is one problem found in a script.
type Issue struct {
	// Segment is the 1-based index of the top-level command the issue belongs to.
	// Zero means the script as a whole.
	Segment int    `json:"segment"`
	Command string `json:"command,omitempty"`
	Message string `json:"message"`
}

func (i Issue) String() string {
	if i.Segment == 0 {
		return i.Message
	}
	return fmt.Sprintf("#%d %s", i.Segment, i.Message)
}

// Known reports whether a command name resolves to a handler.
type Known func(name string) bool

// FromVocabulary builds a Known over usages and their aliases.
func FromVocabulary(usages []domain.Usage) Known {
	names := make(map[string]bool)
	for _, u := range usages {
		names[strings.ToLower(u.Name)] = true
		for _, a := range u.Aliases {
			names[strings.ToLower(a)] = true
		}
	}
	return func(name string) bool { return names[strings.ToLower(name)] }
}

type pending struct {
	text    string
	segment int
}

// Lint walks the script and every when body it binds, reporting
// unknown commands, malformed blocks and unbalanced quotes or blocks.
func Lint(text string, known Known) []Issue {
	var issues []Issue
	queue := []pending{{text: text}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		scan := dsl.Analyze(current.text)
		if scan.OpenQuote {
			issues = append(issues, Issue{Segment: current.segment, Message: "unterminated quote"})
		}
		if scan.Depth > 0 {
			issues = append(issues, Issue{
				Segment: current.segment,
				Message: fmt.Sprintf("%d when block(s) missing end", scan.Depth),
			})
		}

		for i, seg := range scan.Segments {
			index := current.segment
			if index == 0 {
				index = i + 1
			}
			name := dsl.CommandName(seg)

			if !known(name) {
				issues = append(issues, Issue{Segment: index, Command: name, Message: "unknown command: " + name})
				continue
			}
			if name != dsl.BlockOpen {
				continue
			}

			// Bodies are only checked once their block is closed.
			body, ok := commands.WhenBody(seg)
			switch {
			case ok:
				queue = append(queue, pending{text: body, segment: index})
			case scan.Depth == 0:
				issues = append(issues, Issue{
					Segment: index,
					Command: name,
					Message: "malformed block, want: when <id> is <event> do <chain> end",
				})
			}
		}
	}

	return issues
}

// Validate lints text and folds the issues into one error.
func Validate(text string, known Known) error {
	issues := Lint(text, known)
	if len(issues) == 0 {
		return nil
	}
	lines := make([]string, len(issues))
	for i, is := range issues {
		lines[i] = is.String()
	}
	return fmt.Errorf("found %d errors:\n- %s", len(issues), strings.Join(lines, "\n- "))
}
