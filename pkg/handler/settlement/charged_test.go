package settlement_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/amirasaad/tokensale/pkg/config"
	"github.com/amirasaad/tokensale/pkg/domain/events"
	"github.com/amirasaad/tokensale/pkg/dto"
	"github.com/amirasaad/tokensale/pkg/handler/settlement"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type dispatchCall struct {
	instance string
	task     string
	input    any
}

type mockDispatcher struct {
	calls []dispatchCall
	err   error
}

func (m *mockDispatcher) Dispatch(ctx context.Context, instance, task string, input any) error {
	if m.err != nil {
		return m.err
	}
	m.calls = append(m.calls, dispatchCall{instance: instance, task: task, input: input})
	return nil
}

func ledgerConfig() *config.Ledger {
	return &config.Ledger{
		ContractAddress: "0xd14A3D6b94016e455af5eB7F329bc572EA626c5F",
		PrivateKey:      "0xkey",
		GasLimit:        100000,
		Decimals:        18,
	}
}

func TestHandleCharged_DispatchesTransfer(t *testing.T) {
	dispatcher := &mockDispatcher{}
	handler := settlement.HandleCharged(dispatcher, ledgerConfig(), slog.Default())

	err := handler(context.Background(), &events.ChargeSucceeded{
		Metadata: events.ChargeMetadata{
			Address: "0xABC",
			Tokens:  decimal.NewFromInt(10),
		},
	})
	require.NoError(t, err)

	require.Len(t, dispatcher.calls, 1)
	call := dispatcher.calls[0]
	assert.Equal(t, events.InstanceTokenLedger, call.instance)
	assert.Equal(t, dto.TaskTransfer, call.task)

	input, ok := call.input.(dto.TransferTaskInput)
	require.True(t, ok)
	assert.Equal(t, "0xd14A3D6b94016e455af5eB7F329bc572EA626c5F", input.ContractAddress)
	assert.Equal(t, "0xkey", input.PrivateKey)
	assert.Equal(t, uint64(100000), input.GasLimit)
	assert.Equal(t, "0xABC", input.To)
	assert.Equal(t, "10000000000000000000", input.Value)
}

func TestHandleCharged_ExactBaseUnits(t *testing.T) {
	tests := []struct {
		tokens string
		want   string
	}{
		{"0", "0"},
		{"1", "1000000000000000000"},
		{"10", "10000000000000000000"},
		{"2.5", "2500000000000000000"},
		{"1000000000", "1000000000000000000000000000"},
	}
	for _, tc := range tests {
		t.Run(tc.tokens, func(t *testing.T) {
			dispatcher := &mockDispatcher{}
			handler := settlement.HandleCharged(dispatcher, ledgerConfig(), slog.Default())

			err := handler(context.Background(), &events.ChargeSucceeded{
				Metadata: events.ChargeMetadata{
					Address: "0xABC",
					Tokens:  decimal.RequireFromString(tc.tokens),
				},
			})
			require.NoError(t, err)
			require.Len(t, dispatcher.calls, 1)
			assert.Equal(t, tc.want, dispatcher.calls[0].input.(dto.TransferTaskInput).Value)
		})
	}
}

func TestHandleCharged_DispatchFailureIsReturned(t *testing.T) {
	dispatcher := &mockDispatcher{err: errors.New("ledger unreachable")}
	handler := settlement.HandleCharged(dispatcher, ledgerConfig(), slog.Default())

	err := handler(context.Background(), &events.ChargeSucceeded{
		Metadata: events.ChargeMetadata{Address: "0xABC", Tokens: decimal.NewFromInt(1)},
	})
	assert.Error(t, err)
}

func TestHandleCharged_SkipsUnexpectedEvent(t *testing.T) {
	dispatcher := &mockDispatcher{}
	handler := settlement.HandleCharged(dispatcher, ledgerConfig(), slog.Default())

	err := handler(context.Background(), &events.PurchaseRequested{
		EthAddress: "0xABC", Email: "a@b.com", PaymentToken: "tok",
	})
	require.NoError(t, err)
	assert.Empty(t, dispatcher.calls)
}
