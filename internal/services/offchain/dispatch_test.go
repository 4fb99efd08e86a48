package offchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockEngine struct {
	mock.Mock
}

func (m *MockEngine) ProcessInboundRequest(ctx context.Context, senderAddress string, body []byte) ([]byte, int) {
	args := m.Called(ctx, senderAddress, body)
	return args.Get(0).([]byte), args.Int(1)
}

func TestDispatch_Handle(t *testing.T) {
	tests := []struct {
		name       string
		body       []byte
		engineBody []byte
		status     int
	}{
		{
			name:       "success response",
			body:       []byte(`{"cid":"abc","command_type":"PaymentCommand"}`),
			engineBody: []byte(`{"status":"success","cid":"abc"}`),
			status:     200,
		},
		{
			name:       "failure status propagated verbatim",
			body:       []byte(`not even json`),
			engineBody: []byte(`{"status":"failure"}`),
			status:     400,
		},
		{
			name:       "empty body still forwarded",
			body:       nil,
			engineBody: []byte(`{"status":"failure"}`),
			status:     500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := new(MockEngine)
			engine.On("ProcessInboundRequest", mock.Anything, "tvasp1counterparty", tt.body).
				Return(tt.engineBody, tt.status)

			dispatch := NewDispatch(engine)
			response, status := dispatch.Handle(context.Background(), "tvasp1counterparty", "req-1", tt.body)

			assert.Equal(t, tt.engineBody, response)
			assert.Equal(t, tt.status, status)
			engine.AssertExpectations(t)
		})
	}
}
