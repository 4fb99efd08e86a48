package offchain

import (
	"context"
	"log"
)

// Header names used to correlate inbound off-chain requests.
const (
	HeaderRequestID     = "X-Request-ID"
	HeaderSenderAddress = "X-Request-Sender-Address"
)

// Engine is the bilateral protocol engine inbound requests are handed to.
// Engine-level failures are already encoded as a (body, status) pair; the
// engine never returns an error past this boundary.
type Engine interface {
	ProcessInboundRequest(ctx context.Context, senderAddress string, body []byte) (response []byte, status int)
}

// Dispatch is the transport-facing entry point for inbound off-chain
// commands. It does not interpret or mutate the request body and
// propagates the engine's status code verbatim.
type Dispatch struct {
	engine Engine
}

func NewDispatch(engine Engine) *Dispatch {
	if engine == nil {
		panic("engine is required")
	}
	return &Dispatch{engine: engine}
}

// Handle forwards one inbound request to the engine, logging before and
// after with the request's correlation id.
func (d *Dispatch) Handle(ctx context.Context, senderAddress, requestID string, body []byte) ([]byte, int) {
	log.Printf("[%s:%s] inbound off-chain request, %d bytes", senderAddress, requestID, len(body))

	response, status := d.engine.ProcessInboundRequest(ctx, senderAddress, body)

	log.Printf("[%s:%s] off-chain response: %d", senderAddress, requestID, status)
	return response, status
}
