package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/senglish/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// It falls back to the raw markdown when no renderer can be built.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return func(markdown string) (string, error) { return markdown, nil }
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// VocabularyMarkdown documents the registered commands as a markdown table.
func VocabularyMarkdown(usages []domain.Usage) string {
	var b strings.Builder
	b.WriteString("# ScriptEnglish commands\n\n")
	b.WriteString("Chain commands with `..`. Blocks open with `when` and close with `end`.\n\n")
	b.WriteString("| Command | Pattern | Description |\n")
	b.WriteString("|---|---|---|\n")
	for _, u := range usages {
		name := "`" + u.Name + "`"
		if len(u.Aliases) > 0 {
			name += " (" + strings.Join(u.Aliases, ", ") + ")"
		}
		fmt.Fprintf(&b, "| %s | `%s` | %s |\n", name, escapePipes(u.Pattern), escapePipes(u.Summary))
	}
	return b.String()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", "\\|")
}
