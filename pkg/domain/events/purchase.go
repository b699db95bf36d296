package events

import (
	"errors"

	"github.com/shopspring/decimal"
)

// PurchaseRequested is emitted by the webhook collaborator when a buyer
// submits a token purchase.
type PurchaseRequested struct {
	EthAddress   string          `json:"ethAddress" validate:"required"`
	Email        string          `json:"email" validate:"required,email"`
	Number       decimal.Decimal `json:"number"`
	PaymentToken string          `json:"token" validate:"required"`
}

func (e PurchaseRequested) Type() string { return EventTypePurchaseRequested }

func (e PurchaseRequested) Validate() error {
	if !e.Number.IsPositive() {
		return errors.New("number must be positive")
	}
	return nil
}

// ChargeSucceeded is emitted by the payment gateway once a charge clears.
// Metadata is echoed back verbatim from the charge task input.
type ChargeSucceeded struct {
	Metadata ChargeMetadata `json:"metadata"`
}

// ChargeMetadata carries the correlation data attached to a charge.
type ChargeMetadata struct {
	Address string          `json:"address" validate:"required"`
	Tokens  decimal.Decimal `json:"tokens"`
}

func (e ChargeSucceeded) Type() string { return EventTypeChargeSucceeded }

// TokenTransferred is emitted by the token ledger for every transfer on every
// contract it watches, related to this workflow or not. To may be empty for
// contract-creation style transfers.
type TokenTransferred struct {
	ContractAddress string `json:"contractAddress" validate:"required"`
	To              string `json:"to"`
	Value           string `json:"value" validate:"required"`
	TransactionHash string `json:"transactionHash"`
}

func (e TokenTransferred) Type() string { return EventTypeTokenTransferred }
