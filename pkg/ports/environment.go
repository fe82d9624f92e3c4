package ports

import (
	"context"

	"github.com/aretw0/senglish/pkg/domain"
)

// Element is an addressable node of the environment.
type Element interface {
	ID() string
	Tag() string

	SetText(text string)
	SetHTML(markup string)
	SetValue(value string)
	Value() string

	SetStyle(prop, value string)
	AddClass(name string)
	RemoveClass(name string)
	ToggleClass(name string)
	HasClass(name string) bool
	SetAttribute(name, value string)

	// On binds a listener to the named event. Listeners run in bind order.
	On(event string, l domain.Listener)
}

// Environment is the mutable node tree commands operate on.
// Identifiers are canonicalized (trimmed, lower-cased) by the implementation.
type Environment interface {
	// Lookup finds an attached element by identifier.
	Lookup(id string) (Element, bool)

	// Create builds a detached element of the given kind. id may be empty.
	Create(tag, id string) Element

	// Attach appends el under the container. An empty container (or "body")
	// means the root. Returns domain.ErrNotFound if the container is missing.
	Attach(el Element, containerID string) error

	// Remove detaches the element and its subtree. It reports whether it existed.
	Remove(id string) bool

	// Dispatch delivers ev to the listeners bound on the element.
	// Returns domain.ErrNotFound if the element is missing.
	Dispatch(ctx context.Context, id string, ev *domain.Event) error
}
