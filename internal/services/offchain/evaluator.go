package offchain

import (
	"encoding/hex"
	"fmt"

	"custos/internal/services/addressing"
	"custos/internal/services/kycdata"
	"custos/internal/services/signer"
)

// AccountResolver resolves an allocated sub-address back to the local
// account that owns it.
type AccountResolver interface {
	ResolveSubAddress(subAddressHex string) (uint, error)
}

// Evaluator computes this custodian's next state for a payment command.
// It is the single callback the protocol engine invokes for local business
// decisions.
type Evaluator struct {
	codec    *addressing.Codec
	accounts AccountResolver
	kyc      kycdata.Provider
	signer   signer.Service
}

func NewEvaluator(codec *addressing.Codec, accounts AccountResolver, kyc kycdata.Provider, signerService signer.Service) *Evaluator {
	if codec == nil {
		panic("codec is required")
	}
	if accounts == nil {
		panic("account resolver is required")
	}
	if kyc == nil {
		panic("kyc provider is required")
	}
	if signerService == nil {
		panic("signer is required")
	}

	return &Evaluator{
		codec:    codec,
		accounts: accounts,
		kyc:      kyc,
		signer:   signerService,
	}
}

// Evaluate returns the next version of the command for this custodian's
// role. The input command is never mutated.
func (e *Evaluator) Evaluate(cmd PaymentCommand) (PaymentCommand, error) {
	switch cmd.LocalRole() {
	case RoleReceiver:
		return e.attachReceiverComplianceData(cmd)
	default:
		return e.evaluateAsSender(cmd)
	}
}

// evaluateAsSender advances the sender side to ready_for_settlement.
//
// Screening of the counterparty's KYC data (sanctions, politically exposed
// persons) is a policy decision that has not been made yet;
// screenCounterpartyKycData is the seam where it plugs in.
func (e *Evaluator) evaluateAsSender(cmd PaymentCommand) (PaymentCommand, error) {
	if err := e.screenCounterpartyKycData(cmd.CounterpartyActor()); err != nil {
		return PaymentCommand{}, err
	}
	return cmd.NewCommand(Update{Status: StatusReadyForSettlement}), nil
}

// screenCounterpartyKycData accepts everything until a screening policy is
// defined. Intentionally a pass-through.
func (e *Evaluator) screenCounterpartyKycData(_ Actor) error {
	return nil
}

// attachReceiverComplianceData resolves the receiving account, fetches its
// KYC data, signs the canonical travel-rule message, and returns the
// command advanced to ready_for_settlement.
func (e *Evaluator) attachReceiverComplianceData(cmd PaymentCommand) (PaymentCommand, error) {
	sub, err := cmd.ReceiverSubAddress(e.codec)
	if err != nil {
		return PaymentCommand{}, fmt.Errorf("%w: %v", ErrSubAddressResolution, err)
	}

	accountID, err := e.accounts.ResolveSubAddress(hex.EncodeToString(sub))
	if err != nil {
		return PaymentCommand{}, fmt.Errorf("%w: %v", ErrSubAddressResolution, err)
	}

	kycData, err := e.kyc.Fetch(accountID)
	if err != nil {
		return PaymentCommand{}, err
	}

	msg, err := cmd.TravelRuleSignatureMessage(e.codec)
	if err != nil {
		return PaymentCommand{}, fmt.Errorf("%w: %v", ErrSubAddressResolution, err)
	}

	sig, err := e.signer.SignHex(msg)
	if err != nil {
		return PaymentCommand{}, fmt.Errorf("%w: %v", ErrSigningFailed, err)
	}

	return cmd.NewCommand(Update{
		Status:             StatusReadyForSettlement,
		KycData:            kycData,
		RecipientSignature: sig,
	}), nil
}
