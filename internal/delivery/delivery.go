// Package delivery holds the entry points that drive the use cases.
package delivery

import "context"

// Delivery is a long-running front end started by the fx app.
type Delivery interface {
	// Serve blocks until the delivery stops or fails.
	Serve(ctx context.Context) error
}
