package eventbus

import (
	"context"
	"log/slog"
	"sync"

	"github.com/amirasaad/tokensale/pkg/domain/common"
	"github.com/amirasaad/tokensale/pkg/eventbus"
)

// MemoryEventBus is a synchronous in-memory Adapter for tests and local
// development. Emit fans out to registered handlers in the calling
// goroutine; Dispatch records tasks instead of sending them anywhere.
type MemoryEventBus struct {
	handlers   map[string][]eventbus.HandlerFunc
	mu         sync.RWMutex
	logger     *slog.Logger
	published  []common.Event
	dispatched []DispatchedTask
}

// DispatchedTask records one Dispatch call for inspection.
type DispatchedTask struct {
	Instance string
	Task     string
	Input    any
}

// NewWithMemory creates a new in-memory event bus.
func NewWithMemory(logger *slog.Logger) *MemoryEventBus {
	return &MemoryEventBus{
		handlers: make(map[string][]eventbus.HandlerFunc),
		logger:   logger.With("bus", "memory"),
	}
}

// Register registers a handler for a specific event type.
func (b *MemoryEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventType] = append(b.handlers[eventType], handler)
}

// Emit delivers the event to all registered handlers for its type. Handler
// errors are logged and swallowed, matching the consume-loop contract of the
// networked adapters.
func (b *MemoryEventBus) Emit(ctx context.Context, event common.Event) error {
	eventType := event.Type()
	b.mu.RLock()
	handlers := append([]eventbus.HandlerFunc{}, b.handlers[eventType]...)
	b.mu.RUnlock()

	b.mu.Lock()
	b.published = append(b.published, event)
	b.mu.Unlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			b.logger.Error("handler error", "error", err, "event_type", eventType)
		}
	}
	return nil
}

// Dispatch records the task.
func (b *MemoryEventBus) Dispatch(ctx context.Context, instance, task string, input any) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.dispatched = append(b.dispatched, DispatchedTask{Instance: instance, Task: task, Input: input})
	return nil
}

// Published returns the events emitted so far. Useful for testing.
func (b *MemoryEventBus) Published() []common.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]common.Event{}, b.published...)
}

// Dispatched returns the tasks dispatched so far. Useful for testing.
func (b *MemoryEventBus) Dispatched() []DispatchedTask {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]DispatchedTask{}, b.dispatched...)
}

// Close implements eventbus.Adapter.
func (b *MemoryEventBus) Close() error { return nil }

var _ eventbus.Adapter = (*MemoryEventBus)(nil)
