package dom

import (
	"maps"
	"slices"
)

// Snapshot is an immutable, JSON-serializable view of a node and its subtree.
type Snapshot struct {
	ID         string            `json:"id,omitempty"`
	Tag        string            `json:"tag"`
	Text       string            `json:"text,omitempty"`
	HTML       string            `json:"html,omitempty"`
	Value      string            `json:"value,omitempty"`
	Classes    []string          `json:"classes,omitempty"`
	Style      map[string]string `json:"style,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Events     []string          `json:"events,omitempty"`
	Children   []Snapshot        `json:"children,omitempty"`
}

func snapshotOf(n *Node) Snapshot {
	s := Snapshot{
		ID:      n.id,
		Tag:     n.tag,
		Text:    n.text,
		HTML:    n.html,
		Value:   n.value,
		Classes: slices.Clone(n.classes),
	}
	if len(n.style) > 0 {
		s.Style = maps.Clone(n.style)
	}
	if len(n.attrs) > 0 {
		s.Attributes = maps.Clone(n.attrs)
	}
	for ev, ls := range n.listeners {
		if len(ls) > 0 {
			s.Events = append(s.Events, ev)
		}
	}
	slices.Sort(s.Events)
	for _, c := range n.children {
		s.Children = append(s.Children, snapshotOf(c))
	}
	return s
}

// Find returns the first snapshot in document order with the given id.
func (s Snapshot) Find(id string) (Snapshot, bool) {
	id = canonical(id)
	var found Snapshot
	ok := false
	s.Walk(func(depth int, n Snapshot) bool {
		if n.ID == id {
			found, ok = n, true
			return false
		}
		return true
	})
	return found, ok
}

// Walk visits the tree depth-first in document order until fn returns false.
func (s Snapshot) Walk(fn func(depth int, n Snapshot) bool) {
	s.walk(0, fn)
}

func (s Snapshot) walk(depth int, fn func(int, Snapshot) bool) bool {
	if !fn(depth, s) {
		return false
	}
	for _, c := range s.Children {
		if !c.walk(depth+1, fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the tree, including the root.
func (s Snapshot) Count() int {
	n := 0
	s.Walk(func(int, Snapshot) bool {
		n++
		return true
	})
	return n
}
