// Package notification emails buyers once their tokens arrive on the ledger.
package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/amirasaad/tokensale/pkg/config"
	"github.com/amirasaad/tokensale/pkg/correlation"
	"github.com/amirasaad/tokensale/pkg/domain/common"
	"github.com/amirasaad/tokensale/pkg/domain/events"
	"github.com/amirasaad/tokensale/pkg/domain/token"
	"github.com/amirasaad/tokensale/pkg/dto"
	"github.com/amirasaad/tokensale/pkg/eventbus"
)

// HandleTransferred sends the purchase receipt for a confirmed transfer. The
// ledger emits transfer events for every contract it watches, so three guards
// apply in order: the contract must be the sale contract, the recipient must
// be present, and the recipient must have a correlation entry. Repeated
// transfer events produce repeated emails; there is no deduplication.
func HandleTransferred(
	dispatcher eventbus.Dispatcher,
	store correlation.Store,
	ledger *config.Ledger,
	email *config.Email,
	logger *slog.Logger,
) eventbus.HandlerFunc {
	return func(ctx context.Context, e common.Event) error {
		log := logger.With("handler", "notification.HandleTransferred")
		evt, ok := e.(*events.TokenTransferred)
		if !ok {
			log.Debug("🚫 [SKIP] unexpected event type", "event", e)
			return nil
		}

		if !strings.EqualFold(evt.ContractAddress, ledger.ContractAddress) {
			log.Debug("🚫 [SKIP] transfer on foreign contract", "contract", evt.ContractAddress)
			return nil
		}
		if evt.To == "" {
			log.Debug("🚫 [SKIP] transfer without recipient", "tx", evt.TransactionHash)
			return nil
		}
		buyerEmail, found := store.Get(evt.To)
		if !found {
			log.Debug("🚫 [SKIP] no correlation entry for recipient", "to", evt.To)
			return nil
		}

		amount, err := token.FromBaseUnits(evt.Value, ledger.Decimals)
		if err != nil {
			log.Error("❌ [ERROR] unreadable transfer value", "error", err, "value", evt.Value)
			return err
		}

		log.Info("📧 [NOTIFY] tokens received, sending receipt",
			"to", evt.To,
			"email", buyerEmail,
			"amount", amount,
			"tx", evt.TransactionHash,
		)

		text := fmt.Sprintf(
			"Hello, you just received your %s tokens. See the details of the transaction here %s%s",
			amount, email.ExplorerURL, evt.TransactionHash,
		)
		err = dispatcher.Dispatch(ctx, events.InstanceEmail, dto.TaskSend, dto.SendEmailTaskInput{
			APIKey:  email.ApiKey,
			From:    email.From,
			To:      buyerEmail,
			Subject: email.Subject,
			Text:    text,
		})
		if err != nil {
			log.Error("❌ [ERROR] receipt dispatch failed", "error", err, "email", buyerEmail)
			return err
		}
		return nil
	}
}
