package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/amirasaad/tokensale/pkg/domain/common"
	"github.com/amirasaad/tokensale/pkg/eventbus"
	"github.com/redis/go-redis/v9"
)

// RedisEventBus is an Adapter over Redis Streams. Each inbound event type is
// consumed from its own stream through a consumer group; tasks are appended
// to per-instance task streams.
type RedisEventBus struct {
	client *redis.Client
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWithRedis creates a Redis-backed event bus.
// url: Redis connection URL (e.g., "redis://localhost:6379").
func NewWithRedis(url string, logger *slog.Logger) (*RedisEventBus, error) {
	if url == "" {
		return nil, fmt.Errorf("redis event bus: url is required")
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("redis event bus: invalid URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis event bus: connection failed: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &RedisEventBus{
		client: client,
		logger: logger.With("bus", "redis"),
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Emit publishes an event to its bound stream.
func (b *RedisEventBus) Emit(ctx context.Context, event common.Event) error {
	envBytes, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("redis event bus: %w", err)
	}

	_, err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamNameFor(event.Type()),
		Values: map[string]any{"event": string(envBytes)},
	}).Result()
	if err != nil {
		return fmt.Errorf("redis event bus: emit failed: %w", err)
	}
	return nil
}

// Dispatch appends a task to the target instance's task stream.
func (b *RedisEventBus) Dispatch(ctx context.Context, instance, task string, input any) error {
	envBytes, err := encodeTask(instance, task, input)
	if err != nil {
		return err
	}

	_, err = b.client.XAdd(ctx, &redis.XAddArgs{
		Stream: taskStreamFor(instance, task),
		Values: map[string]any{"task": string(envBytes)},
	}).Result()
	if err != nil {
		return &eventbus.DispatchError{Instance: instance, Task: task, Err: err}
	}
	return nil
}

// Register starts a consumer goroutine for the event type's stream. The
// subscription never restarts a message: a message is acknowledged whether
// its handler succeeded, failed, or could not be decoded.
func (b *RedisEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	stream := streamNameFor(eventType)
	group := groupNameFor(eventType)
	consumer := fmt.Sprintf("consumer-%s-%d", eventType, time.Now().UnixNano())

	_ = b.client.XGroupCreateMkStream(b.ctx, stream, group, "0")
	b.logger.Info("registering handler", "event_type", eventType, "stream", stream, "consumer", consumer)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		for {
			res, err := b.client.XReadGroup(b.ctx, &redis.XReadGroupArgs{
				Group:    group,
				Consumer: consumer,
				Streams:  []string{stream, ">"},
				Count:    1,
				Block:    5 * time.Second,
			}).Result()

			if err != nil {
				if b.ctx.Err() != nil {
					return
				}
				if !errors.Is(err, redis.Nil) {
					b.logger.Error("error reading from stream", "error", err, "stream", stream)
					time.Sleep(time.Second)
				}
				continue
			}

			for _, s := range res {
				for _, msg := range s.Messages {
					b.handleMessage(eventType, stream, group, msg, handler)
				}
			}
		}
	}()
}

func (b *RedisEventBus) handleMessage(
	eventType, stream, group string,
	msg redis.XMessage,
	handler eventbus.HandlerFunc,
) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("handler panic recovered", "panic", r, "event_type", eventType)
		}
		if err := b.client.XAck(b.ctx, stream, group, msg.ID).Err(); err != nil {
			b.logger.Error("failed to acknowledge message", "error", err, "msg_id", msg.ID)
		}
	}()

	raw, ok := msg.Values["event"].(string)
	if !ok {
		b.logger.Error("message without event field", "stream", stream, "msg_id", msg.ID)
		return
	}

	evt, err := decodeEnvelope([]byte(raw))
	if err != nil {
		b.logger.Error("skipping undecodable event", "error", err, "stream", stream, "msg_id", msg.ID)
		return
	}
	if evt.Type() != eventType {
		b.logger.Debug("event type mismatch on stream", "got", evt.Type(), "expected", eventType)
		return
	}

	if err := handler(b.ctx, evt); err != nil {
		b.logger.Error("handler error", "error", err, "event_type", eventType, "msg_id", msg.ID)
	}
}

// Close stops all consumer goroutines and closes the connection.
func (b *RedisEventBus) Close() error {
	b.cancel()
	b.wg.Wait()
	return b.client.Close()
}

var _ eventbus.Adapter = (*RedisEventBus)(nil)
