package offchain

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"testing"

	"custos/internal/services/kycdata"
	"custos/internal/services/signer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockAccountResolver struct {
	mock.Mock
}

func (m *MockAccountResolver) ResolveSubAddress(subAddressHex string) (uint, error) {
	args := m.Called(subAddressHex)
	return args.Get(0).(uint), args.Error(1)
}

type MockKycProvider struct {
	mock.Mock
}

func (m *MockKycProvider) Fetch(userID uint) (*kycdata.Object, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*kycdata.Object), args.Error(1)
}

type MockSigner struct {
	mock.Mock
}

func (m *MockSigner) Sign(message []byte) ([]byte, error) {
	args := m.Called(message)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockSigner) SignHex(message []byte) (string, error) {
	args := m.Called(message)
	return args.String(0), args.Error(1)
}

func (m *MockSigner) PublicKey() ed25519.PublicKey {
	args := m.Called()
	return args.Get(0).(ed25519.PublicKey)
}

func testSigner(t *testing.T) signer.Service {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(0x42)
	}
	svc, err := signer.NewService(ed25519.NewKeyFromSeed(seed))
	require.NoError(t, err)
	return svc
}

func receiverSubHex() string {
	return hex.EncodeToString(repeatByte(0xAB, 8))
}

func TestEvaluator_ReceiverAttachesComplianceData(t *testing.T) {
	codec := testCodec()
	cmd := testCommand(t)

	resolver := new(MockAccountResolver)
	resolver.On("ResolveSubAddress", receiverSubHex()).Return(uint(7), nil)

	kycObject := &kycdata.Object{
		Type:           kycdata.TypeIndividual,
		PayloadVersion: kycdata.PayloadVersion,
		GivenName:      "Ada",
		Surname:        "Lovelace",
	}
	provider := new(MockKycProvider)
	provider.On("Fetch", uint(7)).Return(kycObject, nil)

	signerService := testSigner(t)
	evaluator := NewEvaluator(codec, resolver, provider, signerService)

	next, err := evaluator.Evaluate(cmd)
	require.NoError(t, err)

	assert.Equal(t, StatusReadyForSettlement, next.Status())
	require.NotNil(t, next.Payment.Receiver.KycData)
	assert.Equal(t, "Ada", next.Payment.Receiver.KycData.GivenName)
	assert.False(t, next.Inbound)
	assert.NotEqual(t, cmd.CID, next.CID)

	// The recipient signature must verify against the compliance key over
	// the canonical message.
	msg, err := cmd.TravelRuleSignatureMessage(codec)
	require.NoError(t, err)
	sig, err := hex.DecodeString(next.Payment.RecipientSignature)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(signerService.PublicKey(), msg, sig))

	// The counterparty's actor is untouched.
	assert.Equal(t, cmd.Payment.Sender, next.Payment.Sender)

	resolver.AssertExpectations(t)
	provider.AssertExpectations(t)
}

func TestEvaluator_SenderAdvancesToReady(t *testing.T) {
	codec := testCodec()
	cmd := testCommand(t)
	cmd.MyActorAddress = cmd.Payment.Sender.Address

	evaluator := NewEvaluator(codec, new(MockAccountResolver), new(MockKycProvider), testSigner(t))

	next, err := evaluator.Evaluate(cmd)
	require.NoError(t, err)

	assert.Equal(t, StatusReadyForSettlement, next.Payment.Sender.Status.Status)
	assert.Nil(t, next.Payment.Sender.KycData)
	assert.Empty(t, next.Payment.RecipientSignature)
	assert.Equal(t, cmd.Payment.Receiver, next.Payment.Receiver)
	assert.False(t, next.Inbound)
}

func TestEvaluator_ReceiverFailures(t *testing.T) {
	codec := testCodec()

	tests := []struct {
		name      string
		mutate    func(*PaymentCommand)
		setupMock func(*MockAccountResolver, *MockKycProvider, *MockSigner)
		wantErr   error
	}{
		{
			name: "unknown sub-address",
			setupMock: func(resolver *MockAccountResolver, _ *MockKycProvider, _ *MockSigner) {
				resolver.On("ResolveSubAddress", receiverSubHex()).Return(uint(0), errors.New("record not found"))
			},
			wantErr: ErrSubAddressResolution,
		},
		{
			name: "receiver identifier without sub-address",
			mutate: func(cmd *PaymentCommand) {
				bare := mustEncode(t, codec, repeatByte(0x22, 16), nil)
				cmd.Payment.Receiver.Address = bare
				cmd.MyActorAddress = bare
			},
			setupMock: func(*MockAccountResolver, *MockKycProvider, *MockSigner) {},
			wantErr:   ErrSubAddressResolution,
		},
		{
			name: "kyc profile missing",
			setupMock: func(resolver *MockAccountResolver, provider *MockKycProvider, _ *MockSigner) {
				resolver.On("ResolveSubAddress", receiverSubHex()).Return(uint(7), nil)
				provider.On("Fetch", uint(7)).Return(nil, kycdata.ErrUserNotFound)
			},
			wantErr: kycdata.ErrUserNotFound,
		},
		{
			name: "signer unavailable",
			setupMock: func(resolver *MockAccountResolver, provider *MockKycProvider, signerMock *MockSigner) {
				resolver.On("ResolveSubAddress", receiverSubHex()).Return(uint(7), nil)
				provider.On("Fetch", uint(7)).Return(&kycdata.Object{Type: kycdata.TypeIndividual}, nil)
				signerMock.On("SignHex", mock.Anything).Return("", signer.ErrKeyNotConfigured)
			},
			wantErr: ErrSigningFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := testCommand(t)
			if tt.mutate != nil {
				tt.mutate(&cmd)
			}

			resolver := new(MockAccountResolver)
			provider := new(MockKycProvider)
			signerMock := new(MockSigner)
			tt.setupMock(resolver, provider, signerMock)

			evaluator := NewEvaluator(codec, resolver, provider, signerMock)

			_, err := evaluator.Evaluate(cmd)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
