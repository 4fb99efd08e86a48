package offchain

import (
	"testing"

	"custos/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockPaymentCommandRepo struct {
	mock.Mock
}

func (m *MockPaymentCommandRepo) Save(record *models.PaymentCommand) error {
	args := m.Called(record)
	return args.Error(0)
}

func (m *MockPaymentCommandRepo) GetByReferenceID(referenceID string) (*models.PaymentCommand, error) {
	args := m.Called(referenceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PaymentCommand), args.Error(1)
}

func (m *MockPaymentCommandRepo) ListByAccount(accountID uint) ([]models.PaymentCommand, error) {
	args := m.Called(accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PaymentCommand), args.Error(1)
}

func TestCommandStore_Save(t *testing.T) {
	codec := testCodec()
	cmd := testCommand(t).NewCommand(Update{Status: StatusReadyForSettlement, RecipientSignature: "cafe"})

	resolver := new(MockAccountResolver)
	resolver.On("ResolveSubAddress", receiverSubHex()).Return(uint(7), nil)

	var saved *models.PaymentCommand
	repo := new(MockPaymentCommandRepo)
	repo.On("Save", mock.AnythingOfType("*models.PaymentCommand")).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*models.PaymentCommand) }).
		Return(nil)

	store := NewCommandStore(repo, resolver, codec)
	require.NoError(t, store.Save(cmd))

	require.NotNil(t, saved)
	assert.Equal(t, "ref-1001", saved.ReferenceID)
	assert.Equal(t, uint(7), saved.AccountID)
	assert.Equal(t, cmd.CID, saved.CID)
	assert.Equal(t, cmd.MyActorAddress, saved.MyActorAddress)
	assert.False(t, saved.Inbound)
	assert.Equal(t, string(StatusReadyForSettlement), saved.Status)

	assert.Equal(t, "ref-1001", saved.Payload["reference_id"])
	assert.Equal(t, "cafe", saved.Payload["recipient_signature"])
}
