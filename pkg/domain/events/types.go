// Package events defines the typed events consumed by the orchestrator and
// their bindings to the upstream service streams.
package events

import "github.com/amirasaad/tokensale/pkg/domain/common"

const (
	EventTypePurchaseRequested = "PurchaseRequested"
	EventTypeChargeSucceeded   = "ChargeSucceeded"
	EventTypeTokenTransferred  = "TokenTransferred"
)

// Service instance names the orchestrator talks to. The webhook, gateway and
// ledger publish events; the gateway, ledger and email service accept tasks.
const (
	InstanceWebhook        = "webhook"
	InstancePaymentGateway = "stripe"
	InstanceTokenLedger    = "erc20"
	InstanceEmail          = "email"
)

// EventTypes maps an event type to its constructor, used by bus adapters to
// decode wire payloads into typed events.
var EventTypes = map[string]func() common.Event{
	EventTypePurchaseRequested: func() common.Event { return &PurchaseRequested{} },
	EventTypeChargeSucceeded:   func() common.Event { return &ChargeSucceeded{} },
	EventTypeTokenTransferred:  func() common.Event { return &TokenTransferred{} },
}

// StreamBinding names the service instance and event key an event type is
// consumed from.
type StreamBinding struct {
	Instance string
	Key      string
}

// Streams binds each inbound event type to its source stream.
var Streams = map[string]StreamBinding{
	EventTypePurchaseRequested: {Instance: InstanceWebhook, Key: "request"},
	EventTypeChargeSucceeded:   {Instance: InstancePaymentGateway, Key: "charged"},
	EventTypeTokenTransferred:  {Instance: InstanceTokenLedger, Key: "transfer"},
}
