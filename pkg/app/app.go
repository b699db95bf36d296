package app

import (
	"log/slog"

	"github.com/amirasaad/tokensale/pkg/config"
	"github.com/amirasaad/tokensale/pkg/correlation"
	"github.com/amirasaad/tokensale/pkg/eventbus"
)

// Deps contains the dependencies shared by the orchestrator handlers.
type Deps struct {
	Bus    eventbus.Adapter
	Store  correlation.Store
	Logger *slog.Logger
}

// App owns the wired orchestrator.
type App struct {
	Deps   *Deps
	Config *config.App
}

// New wires the handlers onto the event bus and returns the running app.
func New(deps *Deps, cfg *config.App) *App {
	app := &App{
		Deps:   deps,
		Config: cfg,
	}
	app.setupEventBus()
	return app
}
