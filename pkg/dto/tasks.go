// Package dto defines the task inputs dispatched to the downstream service
// instances. Field names follow the wire contract of each service.
package dto

import (
	"github.com/shopspring/decimal"
)

// Task keys accepted by the downstream services.
const (
	TaskCharge   = "charge"
	TaskTransfer = "transfer"
	TaskSend     = "send"
)

// ChargeMetadata is echoed back by the payment gateway on the charged event
// and is the only correlation data the settlement step sees.
type ChargeMetadata struct {
	Address string          `json:"address"`
	Tokens  decimal.Decimal `json:"tokens"`
}

// ChargeTaskInput charges the buyer's card. Amount is in integer cents.
type ChargeTaskInput struct {
	Amount    int64          `json:"amount"`
	Currency  string         `json:"currency"`
	Email     string         `json:"email"`
	Metadata  ChargeMetadata `json:"metadata"`
	Source    string         `json:"source"`
	SecretKey string         `json:"secretKey"`
}

// TransferTaskInput moves tokens on the ledger. Value is a base-unit decimal
// integer string.
type TransferTaskInput struct {
	ContractAddress string `json:"contractAddress"`
	PrivateKey      string `json:"privateKey"`
	GasLimit        uint64 `json:"gasLimit"`
	To              string `json:"to"`
	Value           string `json:"value"`
}

// SendEmailTaskInput delivers the purchase receipt.
type SendEmailTaskInput struct {
	APIKey  string `json:"apiKey"`
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}
