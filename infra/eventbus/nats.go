package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/tokensale/pkg/domain/common"
	"github.com/amirasaad/tokensale/pkg/eventbus"
	"github.com/nats-io/nats.go"
)

// NATSEventBus is an Adapter over core NATS. Event streams map to subjects
// (events.<instance>.<key>); each registered handler gets a queue
// subscription so horizontally scaled orchestrators share the load.
type NATSEventBus struct {
	nc     *nats.Conn
	logger *slog.Logger

	mu   sync.Mutex
	subs []*nats.Subscription
}

// NATSConfig holds connection options for the NATS event bus.
type NATSConfig struct {
	URL           string
	Name          string
	ConnTimeout   time.Duration
	MaxReconnects int
}

// NewWithNATS connects to NATS and returns an event bus.
func NewWithNATS(cfg NATSConfig, logger *slog.Logger) (*NATSEventBus, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("nats event bus: url is required")
	}

	opts := []nats.Option{}
	if cfg.Name != "" {
		opts = append(opts, nats.Name(cfg.Name))
	}
	if cfg.ConnTimeout > 0 {
		opts = append(opts, nats.Timeout(cfg.ConnTimeout))
	}
	if cfg.MaxReconnects != 0 {
		opts = append(opts, nats.MaxReconnects(cfg.MaxReconnects))
	}

	nc, err := nats.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("nats event bus: connect: %w", err)
	}

	return &NATSEventBus{
		nc:     nc,
		logger: logger.With("bus", "nats"),
	}, nil
}

// Emit publishes an event on its bound subject.
func (b *NATSEventBus) Emit(ctx context.Context, event common.Event) error {
	envBytes, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("nats event bus: %w", err)
	}

	subject := subjectFor(streamNameFor(event.Type()))
	if err := b.nc.Publish(subject, envBytes); err != nil {
		return fmt.Errorf("nats event bus: emit failed: %w", err)
	}
	return b.nc.Flush()
}

// Dispatch publishes a task toward the target instance's task subject.
func (b *NATSEventBus) Dispatch(ctx context.Context, instance, task string, input any) error {
	envBytes, err := encodeTask(instance, task, input)
	if err != nil {
		return err
	}

	subject := subjectFor(taskStreamFor(instance, task))
	if err := b.nc.Publish(subject, envBytes); err != nil {
		return &eventbus.DispatchError{Instance: instance, Task: task, Err: err}
	}
	if err := b.nc.Flush(); err != nil {
		return &eventbus.DispatchError{Instance: instance, Task: task, Err: err}
	}
	return nil
}

// Register subscribes a handler to the event type's subject. Messages that
// fail to decode are skipped; handler errors are logged and the subscription
// keeps running.
func (b *NATSEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	subject := subjectFor(streamNameFor(eventType))
	queue := groupNameFor(eventType)

	sub, err := b.nc.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		defer func() {
			if r := recover(); r != nil {
				b.logger.Error("handler panic recovered", "panic", r, "event_type", eventType)
			}
		}()

		evt, err := decodeEnvelope(msg.Data)
		if err != nil {
			b.logger.Error("skipping undecodable event", "error", err, "subject", subject)
			return
		}
		if evt.Type() != eventType {
			b.logger.Debug("event type mismatch on subject", "got", evt.Type(), "expected", eventType)
			return
		}

		if err := handler(context.Background(), evt); err != nil {
			b.logger.Error("handler error", "error", err, "event_type", eventType)
		}
	})
	if err != nil {
		b.logger.Error("failed to subscribe", "error", err, "subject", subject)
		return
	}

	b.mu.Lock()
	b.subs = append(b.subs, sub)
	b.mu.Unlock()
	b.logger.Info("registered handler", "event_type", eventType, "subject", subject, "queue", queue)
}

// Close drains the connection, letting in-flight messages finish.
func (b *NATSEventBus) Close() error {
	if b.nc != nil && !b.nc.IsClosed() {
		if err := b.nc.Drain(); err != nil {
			b.nc.Close()
			return err
		}
	}
	return nil
}

var _ eventbus.Adapter = (*NATSEventBus)(nil)
