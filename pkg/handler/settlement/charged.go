// Package settlement turns confirmed charges into on-ledger token transfers.
package settlement

import (
	"context"
	"log/slog"

	"github.com/amirasaad/tokensale/pkg/config"
	"github.com/amirasaad/tokensale/pkg/domain/common"
	"github.com/amirasaad/tokensale/pkg/domain/events"
	"github.com/amirasaad/tokensale/pkg/domain/token"
	"github.com/amirasaad/tokensale/pkg/dto"
	"github.com/amirasaad/tokensale/pkg/eventbus"
)

// HandleCharged dispatches a token transfer for a confirmed charge. The
// address and token count are taken from the metadata echoed back by the
// payment gateway; the gateway is trusted on both.
func HandleCharged(
	dispatcher eventbus.Dispatcher,
	ledger *config.Ledger,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	return func(ctx context.Context, e common.Event) error {
		log := logger.With("handler", "settlement.HandleCharged")
		evt, ok := e.(*events.ChargeSucceeded)
		if !ok {
			log.Debug("🚫 [SKIP] unexpected event type", "event", e)
			return nil
		}

		value := token.ToBaseUnits(evt.Metadata.Tokens, ledger.Decimals)
		log.Info("🪙 [TRANSFER] charge confirmed, transferring tokens",
			"to", evt.Metadata.Address,
			"tokens", evt.Metadata.Tokens,
			"value", value,
		)

		err := dispatcher.Dispatch(ctx, events.InstanceTokenLedger, dto.TaskTransfer, dto.TransferTaskInput{
			ContractAddress: ledger.ContractAddress,
			PrivateKey:      ledger.PrivateKey,
			GasLimit:        ledger.GasLimit,
			To:              evt.Metadata.Address,
			Value:           value,
		})
		if err != nil {
			log.Error("❌ [ERROR] transfer dispatch failed", "error", err, "to", evt.Metadata.Address)
			return err
		}
		return nil
	}
}
