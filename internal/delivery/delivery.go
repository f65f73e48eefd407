// Package delivery defines the contract every transport entrypoint
// implements, so the composition root can start them uniformly.
package delivery

import "context"

// Delivery is a server that accepts external traffic. Serve blocks until
// the server stops; shutdown happens through the fx lifecycle.
type Delivery interface {
	Serve(ctx context.Context) error
}
