// Package initializer wires the orchestrator's dependencies from loaded
// configuration.
package initializer

import (
	"fmt"

	infraeventbus "github.com/amirasaad/tokensale/infra/eventbus"
	"github.com/amirasaad/tokensale/pkg/app"
	"github.com/amirasaad/tokensale/pkg/config"
	"github.com/amirasaad/tokensale/pkg/correlation"
	"github.com/amirasaad/tokensale/pkg/eventbus"
)

// InitializeDependencies builds the logger, event bus adapter and correlation
// store. Bus selection: Redis when a Redis URL is configured, then NATS, then
// Kafka (requires the kafka build tag), otherwise the in-memory bus (local
// development only).
func InitializeDependencies(cfg *config.App) (*app.Deps, error) {
	deps := &app.Deps{}
	logger := setupLogger(cfg.Log)
	deps.Logger = logger

	var bus eventbus.Adapter
	var err error
	switch {
	case cfg.Redis.URL != "":
		bus, err = infraeventbus.NewWithRedis(cfg.Redis.URL, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis event bus: %w", err)
		}
	case cfg.NATS.URL != "":
		bus, err = infraeventbus.NewWithNATS(infraeventbus.NATSConfig{
			URL:  cfg.NATS.URL,
			Name: "tokensale-orchestrator",
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create NATS event bus: %w", err)
		}
	case cfg.Kafka.Brokers != "":
		bus, err = infraeventbus.NewWithKafka(cfg.Kafka.Brokers, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka event bus: %w", err)
		}
	default:
		logger.Warn("No bus endpoint configured, falling back to in-memory bus")
		bus = infraeventbus.NewWithMemory(logger)
	}
	deps.Bus = bus

	deps.Store = correlation.NewMemoryStore()

	return deps, nil
}
