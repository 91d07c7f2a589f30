package notify

import (
	"context"
	"fmt"

	"github.com/dmitrymomot/twofactor/pkg/twofactor"
)

// Router dispatches each delivery to the notifier registered for its method.
type Router struct {
	routes map[twofactor.Method]twofactor.Notifier
}

// NewRouter builds a Router. Nil notifiers are skipped.
func NewRouter(routes map[twofactor.Method]twofactor.Notifier) *Router {
	r := &Router{routes: make(map[twofactor.Method]twofactor.Notifier, len(routes))}
	for m, n := range routes {
		if n != nil {
			r.routes[m] = n
		}
	}
	return r
}

func (r *Router) Notify(ctx context.Context, d twofactor.Delivery) error {
	n, ok := r.routes[d.Method]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoRoute, d.Method)
	}
	return n.Notify(ctx, d)
}
