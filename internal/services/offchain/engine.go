package offchain

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"custos/internal/services/addressing"
	"custos/internal/services/kycdata"
)

// Wire envelope for inbound off-chain commands and their responses.
const commandTypePayment = "PaymentCommand"

type commandRequest struct {
	CID         string   `json:"cid"`
	CommandType string   `json:"command_type"`
	Payment     *Payment `json:"payment,omitempty"`
}

type commandResponse struct {
	Status string        `json:"status"`
	CID    string        `json:"cid,omitempty"`
	Error  *commandError `json:"error,omitempty"`
}

type commandError struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
}

// LocalEngine is the in-process protocol engine. It decodes an inbound
// payment-command envelope, asks the Evaluator for this custodian's next
// command state, persists the result, and encodes the outcome with a
// correlated status code. Envelope signature verification between
// custodians happens upstream of this process.
type LocalEngine struct {
	evaluator   *Evaluator
	store       CommandStore
	codec       *addressing.Codec
	vaspAddress []byte
}

func NewLocalEngine(evaluator *Evaluator, store CommandStore, codec *addressing.Codec, vaspAddress []byte) *LocalEngine {
	if evaluator == nil {
		panic("evaluator is required")
	}
	if store == nil {
		panic("command store is required")
	}
	if codec == nil {
		panic("codec is required")
	}
	if len(vaspAddress) != addressing.AddressLength {
		panic("vasp address must be 16 bytes")
	}

	return &LocalEngine{
		evaluator:   evaluator,
		store:       store,
		codec:       codec,
		vaspAddress: vaspAddress,
	}
}

// ProcessInboundRequest implements Engine. Every failure is encoded as a
// (body, status) pair; it never returns an error.
func (e *LocalEngine) ProcessInboundRequest(_ context.Context, _ string, body []byte) ([]byte, int) {
	var req commandRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return protocolError("invalid_json", "request body is not valid JSON", http.StatusBadRequest)
	}
	if req.CommandType != commandTypePayment {
		return protocolError("unsupported_command_type", "unsupported command type: "+req.CommandType, http.StatusBadRequest)
	}
	if req.Payment == nil {
		return protocolError("missing_payment", "payment object is required", http.StatusBadRequest)
	}

	myAddress, ok := e.localActorAddress(*req.Payment)
	if !ok {
		return protocolError("unrelated_command", "neither actor belongs to this custodian", http.StatusBadRequest)
	}

	cmd := PaymentCommand{
		MyActorAddress: myAddress,
		Payment:        *req.Payment,
		Inbound:        true,
		CID:            req.CID,
	}

	next, err := e.evaluator.Evaluate(cmd)
	if err != nil {
		return commandFailure(req.CID, err)
	}

	if err := e.store.Save(next); err != nil {
		return protocolError("storage_failure", "failed to persist command", http.StatusInternalServerError)
	}

	return respond(commandResponse{Status: "success", CID: next.CID}, http.StatusOK)
}

// localActorAddress picks whichever actor's on-chain address is ours,
// preferring the receiver when both sides are local.
func (e *LocalEngine) localActorAddress(p Payment) (string, bool) {
	if e.ownsAddress(p.Receiver.Address) {
		return p.Receiver.Address, true
	}
	if e.ownsAddress(p.Sender.Address) {
		return p.Sender.Address, true
	}
	return "", false
}

func (e *LocalEngine) ownsAddress(identifier string) bool {
	onChain, _, err := e.codec.Decode(identifier)
	if err != nil {
		return false
	}
	return bytes.Equal(onChain, e.vaspAddress)
}

// commandFailure maps evaluation errors to the error taxonomy: not-found
// for unresolvable accounts, server fault for signing, validation
// otherwise.
func commandFailure(cid string, err error) ([]byte, int) {
	var (
		code   string
		status int
	)
	switch {
	case errors.Is(err, ErrSubAddressResolution), errors.Is(err, kycdata.ErrUserNotFound):
		code, status = "unknown_receiving_account", http.StatusNotFound
	case errors.Is(err, ErrSigningFailed):
		code, status = "signing_unavailable", http.StatusInternalServerError
	case errors.Is(err, addressing.ErrMalformedIdentifier):
		code, status = "malformed_identifier", http.StatusBadRequest
	default:
		code, status = "command_rejected", http.StatusInternalServerError
	}

	return respond(commandResponse{
		Status: "failure",
		CID:    cid,
		Error:  &commandError{Type: "command_error", Code: code, Message: err.Error()},
	}, status)
}

func protocolError(code, message string, status int) ([]byte, int) {
	return respond(commandResponse{
		Status: "failure",
		Error:  &commandError{Type: "protocol_error", Code: code, Message: message},
	}, status)
}

func respond(resp commandResponse, status int) ([]byte, int) {
	body, err := json.Marshal(resp)
	if err != nil {
		return []byte(`{"status":"failure"}`), http.StatusInternalServerError
	}
	return body, status
}
