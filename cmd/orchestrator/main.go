package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/amirasaad/tokensale/infra/initializer"
	"github.com/amirasaad/tokensale/pkg/app"
	"github.com/amirasaad/tokensale/pkg/config"
	log "github.com/charmbracelet/log"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load(".env")
	if err != nil {
		return fmt.Errorf("failed to load application configuration: %w", err)
	}

	deps, err := initializer.InitializeDependencies(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}

	app.New(deps, cfg)

	deps.Logger.Info("orchestrator running",
		"env", cfg.Env,
		"contract", cfg.Ledger.ContractAddress,
		"unit_price_usd", cfg.Sale.UnitPriceUSD,
	)

	// Run until externally terminated.
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	s := <-sig
	deps.Logger.Info("shutting down", "signal", s.String())

	return deps.Bus.Close()
}
