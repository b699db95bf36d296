//go:build kafka
// +build kafka

package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/amirasaad/tokensale/pkg/domain/common"
	"github.com/amirasaad/tokensale/pkg/eventbus"
	"github.com/segmentio/kafka-go"
)

// KafkaEventBus is an Adapter over Kafka topics, built only with the `kafka`
// tag. Event streams map to topics; every registered event type gets its own
// reader in a shared consumer group. Messages are committed whether or not
// the handler succeeded — the workflow has no retry semantics.
type KafkaEventBus struct {
	brokers []string
	writer  *kafka.Writer
	logger  *slog.Logger
	groupID string

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	readersMtx sync.Mutex
	readers    map[string]*kafka.Reader
}

// NewWithKafka creates a Kafka-backed event bus.
// brokers: comma-separated broker list (e.g. "localhost:9092,localhost:9093").
func NewWithKafka(brokers string, logger *slog.Logger) (*KafkaEventBus, error) {
	parsed := parseBrokers(brokers)
	if len(parsed) == 0 {
		return nil, fmt.Errorf("kafka event bus: brokers are required")
	}

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(parsed...),
		AllowAutoTopicCreation: true,
		RequiredAcks:           kafka.RequireOne,
		Balancer:               &kafka.Hash{},
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &KafkaEventBus{
		brokers: parsed,
		writer:  writer,
		logger:  logger.With("bus", "kafka"),
		groupID: "tokensale",
		ctx:     ctx,
		cancel:  cancel,
		readers: make(map[string]*kafka.Reader),
	}, nil
}

// Emit publishes an event to its bound topic.
func (b *KafkaEventBus) Emit(ctx context.Context, event common.Event) error {
	envBytes, err := encodeEnvelope(event)
	if err != nil {
		return fmt.Errorf("kafka event bus: %w", err)
	}

	msg := kafka.Message{
		Topic: topicFor(streamNameFor(event.Type())),
		Key:   []byte(event.Type()),
		Value: envBytes,
		Time:  time.Now(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafka event bus: emit failed: %w", err)
	}
	return nil
}

// Dispatch publishes a task to the target instance's task topic.
func (b *KafkaEventBus) Dispatch(ctx context.Context, instance, task string, input any) error {
	envBytes, err := encodeTask(instance, task, input)
	if err != nil {
		return err
	}

	msg := kafka.Message{
		Topic: topicFor(taskStreamFor(instance, task)),
		Key:   []byte(task),
		Value: envBytes,
		Time:  time.Now(),
	}
	if err := b.writer.WriteMessages(ctx, msg); err != nil {
		return &eventbus.DispatchError{Instance: instance, Task: task, Err: err}
	}
	return nil
}

// Register starts a consume loop for the event type's topic.
func (b *KafkaEventBus) Register(eventType string, handler eventbus.HandlerFunc) {
	topic := topicFor(streamNameFor(eventType))

	b.readersMtx.Lock()
	if _, exists := b.readers[eventType]; exists {
		b.readersMtx.Unlock()
		return
	}
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     b.brokers,
		GroupID:     b.groupID,
		Topic:       topic,
		StartOffset: kafka.FirstOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
		MaxWait:     1 * time.Second,
	})
	b.readers[eventType] = reader
	b.readersMtx.Unlock()

	b.logger.Info("registered handler", "event_type", eventType, "topic", topic)

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.consumeLoop(eventType, reader, handler)
	}()
}

func (b *KafkaEventBus) consumeLoop(eventType string, reader *kafka.Reader, handler eventbus.HandlerFunc) {
	for {
		msg, err := reader.FetchMessage(b.ctx)
		if err != nil {
			if b.ctx.Err() != nil {
				return
			}
			b.logger.Error("kafka consume error", "error", err, "event_type", eventType)
			time.Sleep(500 * time.Millisecond)
			continue
		}

		func() {
			defer func() {
				if r := recover(); r != nil {
					b.logger.Error("handler panic recovered", "panic", r, "event_type", eventType)
				}
			}()

			evt, err := decodeEnvelope(msg.Value)
			if err != nil {
				b.logger.Error("skipping undecodable event", "error", err, "topic", msg.Topic, "offset", msg.Offset)
				return
			}
			if evt.Type() != eventType {
				b.logger.Debug("event type mismatch on topic", "got", evt.Type(), "expected", eventType)
				return
			}
			if err := handler(b.ctx, evt); err != nil {
				b.logger.Error("handler error", "error", err, "event_type", eventType, "offset", msg.Offset)
			}
		}()

		if err := reader.CommitMessages(b.ctx, msg); err != nil {
			b.logger.Error("kafka commit error", "error", err, "topic", msg.Topic, "offset", msg.Offset)
		}
	}
}

// Close stops consume loops and closes network resources.
func (b *KafkaEventBus) Close() error {
	b.cancel()

	b.readersMtx.Lock()
	for _, r := range b.readers {
		_ = r.Close()
	}
	b.readersMtx.Unlock()

	b.wg.Wait()
	return b.writer.Close()
}

func topicFor(stream string) string {
	return "tokensale." + strings.ReplaceAll(stream, ":", ".")
}

func parseBrokers(brokers string) []string {
	parts := strings.Split(brokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

var _ eventbus.Adapter = (*KafkaEventBus)(nil)
