package offchain

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"custos/internal/services/kycdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCommandStore struct {
	mock.Mock
}

func (m *MockCommandStore) Save(cmd PaymentCommand) error {
	args := m.Called(cmd)
	return args.Error(0)
}

// engineFixture wires a local engine around this custodian's address
// 0x22... with mocked account resolution, KYC lookup, and storage.
type engineFixture struct {
	engine   *LocalEngine
	resolver *MockAccountResolver
	provider *MockKycProvider
	store    *MockCommandStore
}

func newEngineFixture(t *testing.T) *engineFixture {
	t.Helper()
	codec := testCodec()

	resolver := new(MockAccountResolver)
	provider := new(MockKycProvider)
	store := new(MockCommandStore)

	evaluator := NewEvaluator(codec, resolver, provider, testSigner(t))
	engine := NewLocalEngine(evaluator, store, codec, repeatByte(0x22, 16))

	return &engineFixture{engine: engine, resolver: resolver, provider: provider, store: store}
}

func inboundEnvelope(t *testing.T, payment Payment) []byte {
	t.Helper()
	body, err := json.Marshal(commandRequest{
		CID:         "cid-inbound",
		CommandType: commandTypePayment,
		Payment:     &payment,
	})
	require.NoError(t, err)
	return body
}

func decodeResponse(t *testing.T, body []byte) commandResponse {
	t.Helper()
	var resp commandResponse
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestLocalEngine_RejectsMalformedEnvelopes(t *testing.T) {
	fixture := newEngineFixture(t)

	tests := []struct {
		name     string
		body     []byte
		wantCode string
	}{
		{
			name:     "invalid json",
			body:     []byte(`{"cid":`),
			wantCode: "invalid_json",
		},
		{
			name:     "unsupported command type",
			body:     []byte(`{"cid":"x","command_type":"FundsPullPreApprovalCommand"}`),
			wantCode: "unsupported_command_type",
		},
		{
			name:     "missing payment",
			body:     []byte(`{"cid":"x","command_type":"PaymentCommand"}`),
			wantCode: "missing_payment",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, status := fixture.engine.ProcessInboundRequest(context.Background(), "sender-vasp", tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			resp := decodeResponse(t, body)
			assert.Equal(t, "failure", resp.Status)
			require.NotNil(t, resp.Error)
			assert.Equal(t, "protocol_error", resp.Error.Type)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
		})
	}
}

func TestLocalEngine_RejectsUnrelatedCommands(t *testing.T) {
	fixture := newEngineFixture(t)
	payment := testCommand(t).Payment

	// Neither actor lives under this custodian's on-chain address.
	codec := testCodec()
	payment.Sender.Address = mustEncode(t, codec, repeatByte(0x33, 16), repeatByte(0x01, 8))
	payment.Receiver.Address = mustEncode(t, codec, repeatByte(0x44, 16), repeatByte(0x02, 8))

	body, status := fixture.engine.ProcessInboundRequest(context.Background(), "sender-vasp", inboundEnvelope(t, payment))

	assert.Equal(t, http.StatusBadRequest, status)
	resp := decodeResponse(t, body)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "unrelated_command", resp.Error.Code)
}

func TestLocalEngine_ReceiverHappyPath(t *testing.T) {
	fixture := newEngineFixture(t)
	payment := testCommand(t).Payment

	fixture.resolver.On("ResolveSubAddress", receiverSubHex()).Return(uint(7), nil)
	fixture.provider.On("Fetch", uint(7)).Return(&kycdata.Object{
		Type:           kycdata.TypeIndividual,
		PayloadVersion: kycdata.PayloadVersion,
		GivenName:      "Ada",
	}, nil)

	var saved PaymentCommand
	fixture.store.On("Save", mock.AnythingOfType("offchain.PaymentCommand")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(PaymentCommand) }).
		Return(nil)

	body, status := fixture.engine.ProcessInboundRequest(context.Background(), "sender-vasp", inboundEnvelope(t, payment))

	assert.Equal(t, http.StatusOK, status)
	resp := decodeResponse(t, body)
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, saved.CID, resp.CID)

	assert.Equal(t, StatusReadyForSettlement, saved.Status())
	assert.Equal(t, RoleReceiver, saved.LocalRole())
	assert.NotEmpty(t, saved.Payment.RecipientSignature)
	assert.False(t, saved.Inbound)

	fixture.resolver.AssertExpectations(t)
	fixture.provider.AssertExpectations(t)
	fixture.store.AssertExpectations(t)
}

func TestLocalEngine_FailureTaxonomy(t *testing.T) {
	t.Run("unknown receiving account", func(t *testing.T) {
		fixture := newEngineFixture(t)
		fixture.resolver.On("ResolveSubAddress", receiverSubHex()).Return(uint(0), errors.New("record not found"))

		body, status := fixture.engine.ProcessInboundRequest(context.Background(), "sender-vasp", inboundEnvelope(t, testCommand(t).Payment))

		assert.Equal(t, http.StatusNotFound, status)
		resp := decodeResponse(t, body)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "command_error", resp.Error.Type)
		assert.Equal(t, "unknown_receiving_account", resp.Error.Code)
		assert.Equal(t, "cid-inbound", resp.CID)
	})

	t.Run("missing kyc profile", func(t *testing.T) {
		fixture := newEngineFixture(t)
		fixture.resolver.On("ResolveSubAddress", receiverSubHex()).Return(uint(7), nil)
		fixture.provider.On("Fetch", uint(7)).Return(nil, kycdata.ErrUserNotFound)

		_, status := fixture.engine.ProcessInboundRequest(context.Background(), "sender-vasp", inboundEnvelope(t, testCommand(t).Payment))
		assert.Equal(t, http.StatusNotFound, status)
	})

	t.Run("storage failure", func(t *testing.T) {
		fixture := newEngineFixture(t)
		fixture.resolver.On("ResolveSubAddress", receiverSubHex()).Return(uint(7), nil)
		fixture.provider.On("Fetch", uint(7)).Return(&kycdata.Object{Type: kycdata.TypeIndividual}, nil)
		fixture.store.On("Save", mock.Anything).Return(errors.New("connection reset"))

		body, status := fixture.engine.ProcessInboundRequest(context.Background(), "sender-vasp", inboundEnvelope(t, testCommand(t).Payment))

		assert.Equal(t, http.StatusInternalServerError, status)
		resp := decodeResponse(t, body)
		require.NotNil(t, resp.Error)
		assert.Equal(t, "storage_failure", resp.Error.Code)
	})
}
