package offchain

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"custos/internal/models"
	"custos/internal/repositories"
	"custos/internal/services/addressing"
)

// CommandStore persists the latest version of each payment command.
type CommandStore interface {
	Save(cmd PaymentCommand) error
}

type commandStore struct {
	repo     repositories.PaymentCommandRepository
	accounts AccountResolver
	codec    *addressing.Codec
}

// NewCommandStore adapts the payment command repository to the engine's
// store contract, indexing each record by the local account it belongs to
// when the receiving sub-address is ours.
func NewCommandStore(repo repositories.PaymentCommandRepository, accounts AccountResolver, codec *addressing.Codec) CommandStore {
	if repo == nil {
		panic("payment command repository is required")
	}
	if accounts == nil {
		panic("account resolver is required")
	}
	if codec == nil {
		panic("codec is required")
	}
	return &commandStore{repo: repo, accounts: accounts, codec: codec}
}

func (s *commandStore) Save(cmd PaymentCommand) error {
	raw, err := json.Marshal(cmd.Payment)
	if err != nil {
		return fmt.Errorf("failed to encode payment: %w", err)
	}
	var payload models.JSON
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("failed to encode payment: %w", err)
	}

	var accountID uint
	if cmd.LocalRole() == RoleReceiver {
		if sub, err := cmd.ReceiverSubAddress(s.codec); err == nil {
			if id, err := s.accounts.ResolveSubAddress(hex.EncodeToString(sub)); err == nil {
				accountID = id
			}
		}
	}

	return s.repo.Save(&models.PaymentCommand{
		ReferenceID:    cmd.ReferenceID(),
		AccountID:      accountID,
		CID:            cmd.CID,
		MyActorAddress: cmd.MyActorAddress,
		Inbound:        cmd.Inbound,
		Status:         string(cmd.Status()),
		Payload:        payload,
	})
}
