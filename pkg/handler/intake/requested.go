// Package intake handles incoming purchase requests and initiates the fiat
// charge.
package intake

import (
	"context"
	"log/slog"

	"github.com/amirasaad/tokensale/pkg/config"
	"github.com/amirasaad/tokensale/pkg/correlation"
	"github.com/amirasaad/tokensale/pkg/domain/common"
	"github.com/amirasaad/tokensale/pkg/domain/events"
	"github.com/amirasaad/tokensale/pkg/domain/token"
	"github.com/amirasaad/tokensale/pkg/dto"
	"github.com/amirasaad/tokensale/pkg/eventbus"
)

// HandleRequested records the buyer's email against their address and
// dispatches a charge task to the payment gateway. The correlation entry is
// written before the dispatch so the notification step can always resolve a
// confirmed transfer, even if the charge dispatch fails.
func HandleRequested(
	dispatcher eventbus.Dispatcher,
	store correlation.Store,
	sale *config.Sale,
	gateway *config.PaymentGateway,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	return func(ctx context.Context, e common.Event) error {
		log := logger.With("handler", "intake.HandleRequested")
		evt, ok := e.(*events.PurchaseRequested)
		if !ok {
			log.Debug("🚫 [SKIP] unexpected event type", "event", e)
			return nil
		}

		store.Put(evt.EthAddress, evt.Email)

		cents := token.Cents(evt.Number, sale.UnitPriceUSD)
		log.Info("💳 [CHARGE] purchase received, charging buyer",
			"address", evt.EthAddress,
			"tokens", evt.Number,
			"amount_cents", cents,
		)

		err := dispatcher.Dispatch(ctx, events.InstancePaymentGateway, dto.TaskCharge, dto.ChargeTaskInput{
			Amount:   cents,
			Currency: sale.Currency,
			Email:    evt.Email,
			Metadata: dto.ChargeMetadata{
				Address: evt.EthAddress,
				Tokens:  evt.Number,
			},
			Source:    evt.PaymentToken,
			SecretKey: gateway.SecretKey,
		})
		if err != nil {
			// The request is dropped; the correlation entry stays in place.
			log.Error("❌ [ERROR] charge dispatch failed", "error", err, "address", evt.EthAddress)
			return err
		}
		return nil
	}
}
