package dom

import (
	"context"
	"slices"

	"github.com/aretw0/senglish/pkg/domain"
)

// Node is an element of a Document. It implements ports.Element.
// Nodes are not safe for concurrent use; the interpreter loop owns them.
type Node struct {
	id    string
	tag   string
	text  string
	html  string
	value string

	classes   []string
	style     map[string]string
	attrs     map[string]string
	listeners map[string][]domain.Listener

	parent   *Node
	children []*Node
}

func newNode(tag, id string) *Node {
	return &Node{
		id:        canonical(id),
		tag:       canonical(tag),
		style:     make(map[string]string),
		attrs:     make(map[string]string),
		listeners: make(map[string][]domain.Listener),
	}
}

func (n *Node) ID() string  { return n.id }
func (n *Node) Tag() string { return n.tag }

// SetText replaces the node's content with plain text, dropping children.
func (n *Node) SetText(text string) {
	n.text = text
	n.html = ""
	n.dropChildren()
}

// SetHTML replaces the node's content with raw markup, dropping children.
// Markup is stored verbatim, never parsed.
func (n *Node) SetHTML(markup string) {
	n.html = markup
	n.text = ""
	n.dropChildren()
}

func (n *Node) SetValue(value string) { n.value = value }
func (n *Node) Value() string         { return n.value }

func (n *Node) SetStyle(prop, value string) {
	n.style[prop] = value
}

func (n *Node) AddClass(name string) {
	if !n.HasClass(name) {
		n.classes = append(n.classes, name)
	}
}

func (n *Node) RemoveClass(name string) {
	n.classes = slices.DeleteFunc(n.classes, func(c string) bool { return c == name })
}

func (n *Node) ToggleClass(name string) {
	if n.HasClass(name) {
		n.RemoveClass(name)
		return
	}
	n.classes = append(n.classes, name)
}

func (n *Node) HasClass(name string) bool {
	return slices.Contains(n.classes, name)
}

func (n *Node) SetAttribute(name, value string) {
	n.attrs[name] = value
}

// On binds l to the event type. The type is canonicalized like ids.
func (n *Node) On(event string, l domain.Listener) {
	ev := canonical(event)
	n.listeners[ev] = append(n.listeners[ev], l)
}

func (n *Node) fire(ctx context.Context, ev *domain.Event) {
	// Copy so listeners binding more listeners do not see themselves fire.
	ls := slices.Clone(n.listeners[canonical(ev.Type)])
	for _, l := range ls {
		l(ctx, ev)
	}
}

func (n *Node) dropChildren() {
	for _, c := range n.children {
		c.parent = nil
	}
	n.children = nil
}

func (n *Node) detach() {
	if n.parent == nil {
		return
	}
	p := n.parent
	p.children = slices.DeleteFunc(p.children, func(c *Node) bool { return c == n })
	n.parent = nil
}

// find returns the first node in document order with the given id.
func (n *Node) find(id string) *Node {
	if n.id == id {
		return n
	}
	for _, c := range n.children {
		if f := c.find(id); f != nil {
			return f
		}
	}
	return nil
}

func (n *Node) contains(other *Node) bool {
	for p := other; p != nil; p = p.parent {
		if p == n {
			return true
		}
	}
	return false
}
