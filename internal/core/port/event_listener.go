package port

import "context"

// EventListenerPort listens for external events (queue messages) and runs
// the matching business logic for each of them.
type EventListenerPort interface {
	// Start blocks until ctx is cancelled or the listener fails
	Start(ctx context.Context) error

	// Close stops the listener and waits for in-flight messages
	Close() error
}
