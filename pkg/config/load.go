// Package config loads the orchestrator configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment. When an env file path is
// given it is loaded first; a missing file is not an error.
func Load(envFilePath ...string) (*App, error) {
	logger := slog.Default()

	if len(envFilePath) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Warn("No .env file found in current directory")
		}
		return loadFromEnv()
	}

	for _, path := range envFilePath {
		if err := godotenv.Load(path); err != nil {
			logger.Debug("Environment file not found", "path", path, "error", err)
			continue
		}
		logger.Info("Environment loaded from file", "path", path)
		return loadFromEnv()
	}

	return loadFromEnv()
}

func loadFromEnv() (*App, error) {
	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	slog.Default().Info("App config loaded",
		"env", cfg.Env,
		"redis_url", maskValue(cfg.Redis.URL),
		"nats_url", maskValue(cfg.NATS.URL),
		"contract_address", cfg.Ledger.ContractAddress,
		"gas_limit", cfg.Ledger.GasLimit,
		"token_decimals", cfg.Ledger.Decimals,
		"unit_price_usd", cfg.Sale.UnitPriceUSD,
		"gateway_secret", maskValue(cfg.PaymentGateway.SecretKey),
		"email_api_key", maskValue(cfg.Email.ApiKey),
	)
	return &cfg, nil
}

func maskValue(key string) string {
	if len(key) <= 6 {
		return "****"
	}
	return key[:2] + "****" + key[len(key)-4:]
}
