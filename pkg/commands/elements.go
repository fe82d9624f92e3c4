package commands

import (
	"context"
	"regexp"
	"strings"

	"github.com/aretw0/senglish/pkg/domain"
)

var (
	createRe      = regexp.MustCompile(`(?i)^create\s+(\w+)\s+named\s+([\w-]+)(?:\s+in\s+([\w-]+))?(?:\s+with\s+text\s+"([^"]+)")?`)
	styleRe       = regexp.MustCompile(`(?i)^style\s+([\w-]+)\s+with\s+(.+)`)
	styleAndRe    = regexp.MustCompile(`(?i)\s+and\s+`)
	addClassRe    = regexp.MustCompile(`(?i)^addClass\s+([\w-]+)\s+to\s+([\w-]+)`)
	removeClassRe = regexp.MustCompile(`(?i)^removeClass\s+([\w-]+)\s+from\s+([\w-]+)`)
	toggleClassRe = regexp.MustCompile(`(?i)^toggleClass\s+([\w-]+)\s+on\s+([\w-]+)`)
	insertRe      = regexp.MustCompile(`(?i)^insert\s+(text|html|value)\s+"([^"]*)"\s+(?:into|on)\s+([\w-]+)`)
	setAttrRe     = regexp.MustCompile(`(?i)^setAttr\s+([\w-]+)\s+to\s+"([^"]+)"\s+on\s+([\w-]+)`)
	removeRe      = regexp.MustCompile(`(?i)^remove\s+element\s+([\w-]+)`)
)

// Create builds an element and attaches it to a container (the root by default).
type Create struct{ env *Env }

func (c *Create) Usage() domain.Usage {
	return domain.Usage{
		Name:    "create",
		Pattern: `create <tag> named <id> [in <container>] [with text "..."]`,
		Summary: "Create an element and append it to a container.",
	}
}

func (c *Create) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(createRe, c.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	tag, id, container, text := parts[1], parts[2], parts[3], parts[4]

	el := c.env.Environment.Create(tag, id)
	if text != "" {
		el.SetText(text)
	}
	return c.env.Environment.Attach(el, container)
}

// Style applies inline style rules: "prop:value [and prop:value]...".
type Style struct{ env *Env }

func (s *Style) Usage() domain.Usage {
	return domain.Usage{
		Name:    "style",
		Pattern: "style <id> with <prop>:<value> [and <prop>:<value>]...",
		Summary: "Set inline style properties on an element.",
	}
}

func (s *Style) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(styleRe, s.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	id, rules := parts[1], parts[2]

	el, ok := s.env.Environment.Lookup(id)
	if !ok {
		return notFound(id, "styling")
	}
	for _, rule := range styleAndRe.Split(rules, -1) {
		prop, value, found := strings.Cut(strings.TrimSpace(rule), ":")
		prop, value = strings.TrimSpace(prop), strings.TrimSpace(value)
		if found && prop != "" && value != "" {
			el.SetStyle(prop, value)
		}
	}
	return nil
}

// AddClass adds a class. A missing element is ignored.
type AddClass struct{ env *Env }

func (a *AddClass) Usage() domain.Usage {
	return domain.Usage{
		Name:    "addClass",
		Pattern: "addClass <class> to <id>",
		Summary: "Add a class to an element.",
	}
}

func (a *AddClass) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(addClassRe, a.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	if el, ok := a.env.Environment.Lookup(parts[2]); ok {
		el.AddClass(parts[1])
	}
	return nil
}

// RemoveClass removes a class. A missing element is ignored.
type RemoveClass struct{ env *Env }

func (r *RemoveClass) Usage() domain.Usage {
	return domain.Usage{
		Name:    "removeClass",
		Pattern: "removeClass <class> from <id>",
		Summary: "Remove a class from an element.",
	}
}

func (r *RemoveClass) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(removeClassRe, r.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	if el, ok := r.env.Environment.Lookup(parts[2]); ok {
		el.RemoveClass(parts[1])
	}
	return nil
}

// ToggleClass flips a class. A missing element is ignored.
type ToggleClass struct{ env *Env }

func (tc *ToggleClass) Usage() domain.Usage {
	return domain.Usage{
		Name:    "toggleClass",
		Pattern: "toggleClass <class> on <id>",
		Summary: "Toggle a class on an element.",
	}
}

func (tc *ToggleClass) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(toggleClassRe, tc.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	if el, ok := tc.env.Environment.Lookup(parts[2]); ok {
		el.ToggleClass(parts[1])
	}
	return nil
}

// Insert writes text, raw markup or a form value into an element.
type Insert struct{ env *Env }

func (i *Insert) Usage() domain.Usage {
	return domain.Usage{
		Name:    "insert",
		Pattern: `insert <text|html|value> "content" <into|on> <id>`,
		Summary: "Replace an element's text, markup or value.",
	}
}

func (i *Insert) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(insertRe, i.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	kind, content, id := strings.ToLower(parts[1]), parts[2], parts[3]

	el, ok := i.env.Environment.Lookup(id)
	if !ok {
		return notFound(id, "insert")
	}
	switch kind {
	case "text":
		el.SetText(content)
	case "value":
		el.SetValue(content)
	default:
		i.env.report(ctx, domain.Diagnostic{
			Kind:    domain.DiagnosticWarning,
			Command: cmd.Name,
			Message: `Using "insert html" can be a security risk.`,
		})
		el.SetHTML(content)
	}
	return nil
}

// SetAttr sets an attribute. A missing element is ignored.
type SetAttr struct{ env *Env }

func (s *SetAttr) Usage() domain.Usage {
	return domain.Usage{
		Name:    "setAttr",
		Pattern: `setAttr <attr> to "value" on <id>`,
		Summary: "Set an attribute on an element.",
	}
}

func (s *SetAttr) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(setAttrRe, s.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	if el, ok := s.env.Environment.Lookup(parts[3]); ok {
		el.SetAttribute(parts[1], parts[2])
	}
	return nil
}

// Remove detaches an element and its subtree. A missing element is ignored.
type Remove struct{ env *Env }

func (r *Remove) Usage() domain.Usage {
	return domain.Usage{
		Name:    "remove",
		Pattern: "remove element <id>",
		Summary: "Remove an element from the document.",
	}
}

func (r *Remove) Handle(ctx context.Context, cmd domain.Command) error {
	parts, err := match(removeRe, r.Usage(), cmd.Text)
	if err != nil {
		return err
	}
	r.env.Environment.Remove(parts[1])
	return nil
}
