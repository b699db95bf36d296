package notification_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/amirasaad/tokensale/pkg/config"
	"github.com/amirasaad/tokensale/pkg/correlation"
	"github.com/amirasaad/tokensale/pkg/domain/events"
	"github.com/amirasaad/tokensale/pkg/dto"
	"github.com/amirasaad/tokensale/pkg/handler/notification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const saleContract = "0xd14A3D6b94016e455af5eB7F329bc572EA626c5F"

type dispatchCall struct {
	instance string
	task     string
	input    any
}

type mockDispatcher struct {
	calls []dispatchCall
}

func (m *mockDispatcher) Dispatch(ctx context.Context, instance, task string, input any) error {
	m.calls = append(m.calls, dispatchCall{instance: instance, task: task, input: input})
	return nil
}

func ledgerConfig() *config.Ledger {
	return &config.Ledger{ContractAddress: saleContract, Decimals: 18}
}

func emailConfig() *config.Email {
	return &config.Email{
		ApiKey:      "sg_test",
		From:        "no-reply@tokensale.dev",
		Subject:     "Your tokens just arrived",
		ExplorerURL: "https://ropsten.etherscan.io/tx/",
	}
}

func transferEvent() *events.TokenTransferred {
	return &events.TokenTransferred{
		ContractAddress: saleContract,
		To:              "0xabc",
		Value:           "10000000000000000000",
		TransactionHash: "0xTX",
	}
}

func TestHandleTransferred_SendsReceipt(t *testing.T) {
	store := correlation.NewMemoryStore()
	defer store.Close()
	store.Put("0xABC", "a@b.com")

	dispatcher := &mockDispatcher{}
	handler := notification.HandleTransferred(
		dispatcher, store, ledgerConfig(), emailConfig(), slog.Default())

	err := handler(context.Background(), transferEvent())
	require.NoError(t, err)

	require.Len(t, dispatcher.calls, 1)
	call := dispatcher.calls[0]
	assert.Equal(t, events.InstanceEmail, call.instance)
	assert.Equal(t, dto.TaskSend, call.task)

	input, ok := call.input.(dto.SendEmailTaskInput)
	require.True(t, ok)
	assert.Equal(t, "sg_test", input.APIKey)
	assert.Equal(t, "no-reply@tokensale.dev", input.From)
	assert.Equal(t, "a@b.com", input.To)
	assert.Equal(t, "Your tokens just arrived", input.Subject)
	assert.Contains(t, input.Text, "10 tokens")
	assert.Contains(t, input.Text, "https://ropsten.etherscan.io/tx/0xTX")
}

func TestHandleTransferred_Guards(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(e *events.TokenTransferred)
		seed     bool
		expected int
	}{
		{
			name:     "matching contract and known recipient",
			mutate:   func(e *events.TokenTransferred) {},
			seed:     true,
			expected: 1,
		},
		{
			name: "contract match is case-insensitive",
			mutate: func(e *events.TokenTransferred) {
				e.ContractAddress = "0XD14A3D6B94016E455AF5EB7F329BC572EA626C5F"
			},
			seed:     true,
			expected: 1,
		},
		{
			name: "foreign contract suppresses",
			mutate: func(e *events.TokenTransferred) {
				e.ContractAddress = "0x0000000000000000000000000000000000000001"
			},
			seed:     true,
			expected: 0,
		},
		{
			name:     "missing recipient suppresses",
			mutate:   func(e *events.TokenTransferred) { e.To = "" },
			seed:     true,
			expected: 0,
		},
		{
			name:     "unknown recipient suppresses",
			mutate:   func(e *events.TokenTransferred) {},
			seed:     false,
			expected: 0,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := correlation.NewMemoryStore()
			defer store.Close()
			if tc.seed {
				store.Put("0xABC", "a@b.com")
			}

			dispatcher := &mockDispatcher{}
			handler := notification.HandleTransferred(
				dispatcher, store, ledgerConfig(), emailConfig(), slog.Default())

			evt := transferEvent()
			tc.mutate(evt)

			err := handler(context.Background(), evt)
			require.NoError(t, err)
			assert.Len(t, dispatcher.calls, tc.expected)
		})
	}
}

func TestHandleTransferred_DuplicateTransferRepeatsReceipt(t *testing.T) {
	store := correlation.NewMemoryStore()
	defer store.Close()
	store.Put("0xABC", "a@b.com")

	dispatcher := &mockDispatcher{}
	handler := notification.HandleTransferred(
		dispatcher, store, ledgerConfig(), emailConfig(), slog.Default())

	evt := transferEvent()
	require.NoError(t, handler(context.Background(), evt))
	require.NoError(t, handler(context.Background(), evt))

	// Replayed transfers are not deduplicated; the buyer gets a second,
	// identical receipt.
	require.Len(t, dispatcher.calls, 2)
	assert.Equal(t, dispatcher.calls[0].input, dispatcher.calls[1].input)
}

func TestHandleTransferred_BadValueSuppresses(t *testing.T) {
	store := correlation.NewMemoryStore()
	defer store.Close()
	store.Put("0xABC", "a@b.com")

	dispatcher := &mockDispatcher{}
	handler := notification.HandleTransferred(
		dispatcher, store, ledgerConfig(), emailConfig(), slog.Default())

	evt := transferEvent()
	evt.Value = "bogus"
	err := handler(context.Background(), evt)
	assert.Error(t, err)
	assert.Empty(t, dispatcher.calls)
}

func TestHandleTransferred_SkipsUnexpectedEvent(t *testing.T) {
	store := correlation.NewMemoryStore()
	defer store.Close()

	dispatcher := &mockDispatcher{}
	handler := notification.HandleTransferred(
		dispatcher, store, ledgerConfig(), emailConfig(), slog.Default())

	err := handler(context.Background(), &events.ChargeSucceeded{})
	require.NoError(t, err)
	assert.Empty(t, dispatcher.calls)
}
