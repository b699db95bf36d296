// Package eventbus defines the contracts between the orchestrator and the
// underlying event transport.
package eventbus

import (
	"context"

	"github.com/amirasaad/tokensale/pkg/domain/common"
)

// HandlerFunc processes a single decoded event. A returned error is logged by
// the bus and the event is still considered processed; it never stops the
// subscription.
type HandlerFunc func(ctx context.Context, e common.Event) error

// Bus delivers typed events to registered handlers.
type Bus interface {
	// Emit publishes an event on its bound stream.
	Emit(ctx context.Context, event common.Event) error
	// Register subscribes a handler to an event type.
	Register(eventType string, handler HandlerFunc)
}

// Dispatcher sends a fire-and-forget task to a named service instance.
type Dispatcher interface {
	Dispatch(ctx context.Context, instance, task string, input any) error
}

// Adapter is the full integration boundary toward the event mesh. It owns no
// business state.
type Adapter interface {
	Bus
	Dispatcher
	Close() error
}
