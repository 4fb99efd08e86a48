// Package offchain implements the local half of the bilateral payment
// command protocol: the command model, the evaluator that computes this
// custodian's next command state, and the inbound dispatch boundary.
package offchain

import (
	"encoding/binary"
	"fmt"

	"custos/internal/services/addressing"
	"custos/internal/services/kycdata"

	"github.com/google/uuid"
)

// Status values an actor moves through during a payment negotiation.
// Transitions are monotonic: once an actor reaches ready_for_settlement it
// is never regressed to an earlier state.
type Status string

const (
	StatusNone               Status = "none"
	StatusNeedsKycData       Status = "needs_kyc_data"
	StatusSoftMatch          Status = "soft_match"
	StatusReadyForSettlement Status = "ready_for_settlement"
	StatusAbort              Status = "abort"
)

// Role is this custodian's side of a payment command, resolved once per
// command rather than re-checked at every decision point.
type Role int

const (
	RoleSender Role = iota
	RoleReceiver
)

func (r Role) String() string {
	if r == RoleReceiver {
		return "receiver"
	}
	return "sender"
}

// StatusObject wraps an actor status on the wire.
type StatusObject struct {
	Status Status `json:"status"`
}

// Actor is one party, sender or receiver, inside a payment command.
type Actor struct {
	Address           string          `json:"address"`
	Status            StatusObject    `json:"status"`
	Metadata          []string        `json:"metadata,omitempty"`
	AdditionalKycData string          `json:"additional_kyc_data,omitempty"`
	KycData           *kycdata.Object `json:"kyc_data,omitempty"`
}

// Action describes the transfer under negotiation. Amount is an integer in
// minor currency units.
type Action struct {
	Amount    uint64 `json:"amount"`
	Currency  string `json:"currency"`
	Action    string `json:"action"`
	Timestamp int64  `json:"timestamp"`
}

// Payment is the shared negotiation state both custodians mutate in turns.
type Payment struct {
	ReferenceID                string `json:"reference_id"`
	Sender                     Actor  `json:"sender"`
	Receiver                   Actor  `json:"receiver"`
	Action                     Action `json:"action"`
	OriginalPaymentReferenceID string `json:"original_payment_reference_id,omitempty"`
	RecipientSignature         string `json:"recipient_signature,omitempty"`
	Description                string `json:"description,omitempty"`
}

// PaymentCommand is one in-flight compliance negotiation. Command values
// are immutable: every state transition derives a new value via NewCommand,
// so prior versions stay inspectable.
type PaymentCommand struct {
	MyActorAddress string  `json:"my_actor_address"`
	Payment        Payment `json:"payment"`
	Inbound        bool    `json:"inbound"`
	CID            string  `json:"cid"`
}

// ReferenceID returns the negotiation's opaque unique id.
func (c PaymentCommand) ReferenceID() string {
	return c.Payment.ReferenceID
}

// LocalRole resolves which side of the command this custodian is on.
func (c PaymentCommand) LocalRole() Role {
	if c.MyActorAddress == c.Payment.Receiver.Address {
		return RoleReceiver
	}
	return RoleSender
}

// MyActor returns the actor owned by this custodian.
func (c PaymentCommand) MyActor() Actor {
	if c.LocalRole() == RoleReceiver {
		return c.Payment.Receiver
	}
	return c.Payment.Sender
}

// CounterpartyActor returns the opposite side's actor.
func (c PaymentCommand) CounterpartyActor() Actor {
	if c.LocalRole() == RoleReceiver {
		return c.Payment.Sender
	}
	return c.Payment.Receiver
}

// Status returns this custodian's actor status.
func (c PaymentCommand) Status() Status {
	return c.MyActor().Status.Status
}

// Update names the fields replaced when deriving the next command version.
// Status and KycData apply to this custodian's actor; RecipientSignature
// applies to the payment.
type Update struct {
	Status             Status
	KycData            *kycdata.Object
	RecipientSignature string
}

// NewCommand returns a deep copy of c with the update applied to the local
// actor, direction flipped to outbound, and a fresh correlation id. The
// receiver is left untouched.
func (c PaymentCommand) NewCommand(u Update) PaymentCommand {
	next := c.clone()

	actor := &next.Payment.Sender
	if next.LocalRole() == RoleReceiver {
		actor = &next.Payment.Receiver
	}

	if u.Status != "" {
		actor.Status = StatusObject{Status: u.Status}
	}
	if u.KycData != nil {
		data := *u.KycData
		actor.KycData = &data
	}
	if u.RecipientSignature != "" {
		next.Payment.RecipientSignature = u.RecipientSignature
	}

	next.Inbound = false
	next.CID = uuid.NewString()
	return next
}

// clone deep-copies the command so derived versions never alias the
// original's slices or KYC objects.
func (c PaymentCommand) clone() PaymentCommand {
	next := c
	next.Payment.Sender = c.Payment.Sender.clone()
	next.Payment.Receiver = c.Payment.Receiver.clone()
	return next
}

func (a Actor) clone() Actor {
	next := a
	if a.Metadata != nil {
		next.Metadata = append([]string(nil), a.Metadata...)
	}
	if a.KycData != nil {
		data := *a.KycData
		next.KycData = &data
	}
	return next
}

// ReceiverSubAddress extracts the receiver's sub-address from the command,
// decoded under the codec's network prefix.
func (c PaymentCommand) ReceiverSubAddress(codec *addressing.Codec) ([]byte, error) {
	_, sub, err := codec.Decode(c.Payment.Receiver.Address)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, fmt.Errorf("%w: receiver identifier carries no sub-address", addressing.ErrMalformedIdentifier)
	}
	return sub, nil
}

// attestSuffix terminates every travel-rule signature message so the signed
// bytes cannot be confused with any other signed payload.
const attestSuffix = "@@$$ATTEST$$@@"

// TravelRuleSignatureMessage derives the canonical byte sequence the
// receiving custodian signs: reference id, receiver on-chain address,
// amount in minor units (little endian), and the attest suffix.
func (c PaymentCommand) TravelRuleSignatureMessage(codec *addressing.Codec) ([]byte, error) {
	onChain, _, err := codec.Decode(c.Payment.Receiver.Address)
	if err != nil {
		return nil, err
	}

	var amount [8]byte
	binary.LittleEndian.PutUint64(amount[:], c.Payment.Action.Amount)

	msg := make([]byte, 0, len(c.Payment.ReferenceID)+1+len(onChain)+len(amount)+len(attestSuffix))
	msg = append(msg, c.Payment.ReferenceID...)
	msg = append(msg, '@')
	msg = append(msg, onChain...)
	msg = append(msg, amount[:]...)
	msg = append(msg, attestSuffix...)
	return msg, nil
}
