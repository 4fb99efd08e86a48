package addressing

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"custos/internal/models"
	"custos/internal/repositories"

	"gorm.io/gorm"
)

// maxAllocationAttempts bounds retries when a freshly generated sub-address
// collides with an existing mapping.
const maxAllocationAttempts = 5

// Service allocates receiving sub-addresses and renders full account
// identifiers for local accounts.
type Service interface {
	// NewSubAddress allocates a sub-address unique within this custodian's
	// namespace and durably associates it with the account.
	NewSubAddress(accountID uint) ([]byte, error)

	// AccountIdentifier allocates a fresh sub-address for the account and
	// encodes it under this custodian's on-chain address.
	AccountIdentifier(accountID uint) (string, error)

	// Codec exposes the identifier codec bound to the network prefix.
	Codec() *Codec
}

type service struct {
	repo        repositories.SubAddressRepository
	codec       *Codec
	vaspAddress []byte
}

// NewService creates an addressing service bound to this custodian's
// on-chain address.
func NewService(repo repositories.SubAddressRepository, codec *Codec, vaspAddress []byte) Service {
	if repo == nil {
		panic("sub-address repository is required")
	}
	if codec == nil {
		panic("codec is required")
	}
	if len(vaspAddress) != AddressLength {
		panic("vasp address must be 16 bytes")
	}

	return &service{
		repo:        repo,
		codec:       codec,
		vaspAddress: vaspAddress,
	}
}

func (s *service) NewSubAddress(accountID uint) ([]byte, error) {
	for attempt := 0; attempt < maxAllocationAttempts; attempt++ {
		sub := make([]byte, SubAddressLength)
		if _, err := rand.Read(sub); err != nil {
			return nil, fmt.Errorf("failed to generate sub-address: %w", err)
		}

		err := s.repo.Create(&models.SubAddress{
			SubAddressHex: hex.EncodeToString(sub),
			AccountID:     accountID,
		})
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to persist sub-address: %w", err)
		}
		return sub, nil
	}
	return nil, ErrAllocationFailed
}

func (s *service) AccountIdentifier(accountID uint) (string, error) {
	sub, err := s.NewSubAddress(accountID)
	if err != nil {
		return "", err
	}
	return s.codec.Encode(s.vaspAddress, sub)
}

func (s *service) Codec() *Codec {
	return s.codec
}
