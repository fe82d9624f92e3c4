// Package dom provides an in-memory, document-like tree that implements
// ports.Environment. It stands in for a browser document so command chains
// can run headless (CLI, HTTP, MCP, tests).
package dom

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aretw0/senglish/pkg/domain"
	"github.com/aretw0/senglish/pkg/ports"
)

// RootID is the identifier of the document root.
const RootID = "body"

var errForeignElement = errors.New("element was not created by this document")

// Document is the root of an element tree.
type Document struct {
	root *Node
}

var _ ports.Environment = (*Document)(nil)

// New creates an empty document with a "body" root.
func New() *Document {
	return &Document{root: newNode("body", RootID)}
}

// Lookup finds an attached element by identifier.
func (d *Document) Lookup(id string) (ports.Element, bool) {
	n := d.lookup(id)
	if n == nil {
		return nil, false
	}
	return n, true
}

func (d *Document) lookup(id string) *Node {
	id = canonical(id)
	if id == "" {
		return nil
	}
	return d.root.find(id)
}

// Create builds a detached element.
func (d *Document) Create(tag, id string) ports.Element {
	return newNode(tag, id)
}

// Attach appends el under the container, moving it if already attached.
func (d *Document) Attach(el ports.Element, containerID string) error {
	n, ok := el.(*Node)
	if !ok {
		return errForeignElement
	}

	parent := d.root
	if c := canonical(containerID); c != "" && c != RootID {
		parent = d.root.find(c)
		if parent == nil {
			return fmt.Errorf("container %q: %w", c, domain.ErrNotFound)
		}
	}
	if n == d.root || n.contains(parent) {
		return fmt.Errorf("cannot attach %q inside itself", n.id)
	}

	n.detach()
	n.parent = parent
	parent.children = append(parent.children, n)
	return nil
}

// Remove detaches the element and its subtree. The root cannot be removed.
func (d *Document) Remove(id string) bool {
	n := d.lookup(id)
	if n == nil || n == d.root {
		return false
	}
	n.detach()
	return true
}

// Dispatch delivers ev to the element's listeners in bind order.
func (d *Document) Dispatch(ctx context.Context, id string, ev *domain.Event) error {
	n := d.lookup(id)
	if n == nil {
		return fmt.Errorf("element %q: %w", canonical(id), domain.ErrNotFound)
	}
	if ev.Target == "" {
		ev.Target = n.id
	}
	n.fire(ctx, ev)
	return nil
}

// Snapshot returns a detached, serializable copy of the whole tree.
func (d *Document) Snapshot() Snapshot {
	return snapshotOf(d.root)
}

func canonical(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
