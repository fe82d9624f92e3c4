package middleware

import "github.com/aretw0/senglish/pkg/ports"

// Middleware allows wrapping a StateBag to add behavior.
type Middleware func(ports.StateBag) ports.StateBag

// Chain wraps bag with the given middlewares. The first middleware is the
// outermost one, so it sees values before the rest.
func Chain(bag ports.StateBag, mws ...Middleware) ports.StateBag {
	for i := len(mws) - 1; i >= 0; i-- {
		bag = mws[i](bag)
	}
	return bag
}
