// Package app wires the purchase workflow handlers onto the event bus.
package app

import (
	"github.com/amirasaad/tokensale/pkg/domain/events"
	"github.com/amirasaad/tokensale/pkg/handler/intake"
	"github.com/amirasaad/tokensale/pkg/handler/notification"
	"github.com/amirasaad/tokensale/pkg/handler/settlement"
)

// setupEventBus registers the three workflow handlers. Each runs on its own
// subscription; they coordinate only through the correlation store.
func (a *App) setupEventBus() {
	bus := a.Deps.Bus
	logger := a.Deps.Logger

	bus.Register(
		events.EventTypePurchaseRequested,
		intake.HandleRequested(
			bus,
			a.Deps.Store,
			a.Config.Sale,
			a.Config.PaymentGateway,
			logger,
		),
	)
	bus.Register(
		events.EventTypeChargeSucceeded,
		settlement.HandleCharged(
			bus,
			a.Config.Ledger,
			logger,
		),
	)
	bus.Register(
		events.EventTypeTokenTransferred,
		notification.HandleTransferred(
			bus,
			a.Deps.Store,
			a.Config.Ledger,
			a.Config.Email,
			logger,
		),
	)
}
