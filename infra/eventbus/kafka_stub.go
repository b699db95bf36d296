//go:build !kafka
// +build !kafka

package eventbus

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/amirasaad/tokensale/pkg/domain/common"
	"github.com/amirasaad/tokensale/pkg/eventbus"
)

// KafkaEventBus is a stub in builds without the `kafka` tag.
type KafkaEventBus struct{}

func NewWithKafka(brokers string, logger *slog.Logger) (*KafkaEventBus, error) {
	return nil, fmt.Errorf("kafka event bus: build with -tags kafka to enable")
}

func (b *KafkaEventBus) Register(eventType string, handler eventbus.HandlerFunc) {}

func (b *KafkaEventBus) Emit(ctx context.Context, event common.Event) error {
	return fmt.Errorf("kafka event bus: build with -tags kafka to enable")
}

func (b *KafkaEventBus) Dispatch(ctx context.Context, instance, task string, input any) error {
	return fmt.Errorf("kafka event bus: build with -tags kafka to enable")
}

func (b *KafkaEventBus) Close() error { return nil }

var _ eventbus.Adapter = (*KafkaEventBus)(nil)
