package config

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
)

// onChainAddressLength is the byte length of a custodian's on-chain address.
const onChainAddressLength = 16

// Offchain holds the off-chain protocol settings for this custodian. It is
// loaded once at startup and passed explicitly into every component that
// needs it; nothing reads these values from the environment after that.
type Offchain struct {
	// HRP is the human-readable network prefix used when encoding and
	// decoding account identifiers.
	HRP string

	// VaspAddress is this custodian's on-chain address.
	VaspAddress []byte

	// CompliancePrivateKey signs travel-rule metadata on behalf of this
	// custodian. It is never rotated at runtime.
	CompliancePrivateKey ed25519.PrivateKey
}

var (
	ErrMissingVaspAddress   = errors.New("VASP_ADDRESS is not configured")
	ErrMissingComplianceKey = errors.New("COMPLIANCE_PRIVATE_KEY is not configured")
)

// LoadOffchain reads the off-chain settings from the environment.
// Expected variables:
//   - NETWORK_HRP: human-readable network prefix (default "tvasp")
//   - VASP_ADDRESS: hex-encoded 16-byte on-chain address
//   - COMPLIANCE_PRIVATE_KEY: hex-encoded Ed25519 seed or private key
func LoadOffchain() (*Offchain, error) {
	hrp := GetEnv("NETWORK_HRP", "tvasp")

	addrHex := GetEnv("VASP_ADDRESS", "")
	if addrHex == "" {
		return nil, ErrMissingVaspAddress
	}
	addr, err := hex.DecodeString(addrHex)
	if err != nil {
		return nil, fmt.Errorf("invalid VASP_ADDRESS: %w", err)
	}
	if len(addr) != onChainAddressLength {
		return nil, fmt.Errorf("invalid VASP_ADDRESS: expected %d bytes, got %d", onChainAddressLength, len(addr))
	}

	keyHex := GetEnv("COMPLIANCE_PRIVATE_KEY", "")
	if keyHex == "" {
		return nil, ErrMissingComplianceKey
	}
	key, err := parseEd25519Key(keyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid COMPLIANCE_PRIVATE_KEY: %w", err)
	}

	return &Offchain{
		HRP:                  hrp,
		VaspAddress:          addr,
		CompliancePrivateKey: key,
	}, nil
}

func parseEd25519Key(keyHex string) (ed25519.PrivateKey, error) {
	raw, err := hex.DecodeString(keyHex)
	if err != nil {
		return nil, err
	}
	switch len(raw) {
	case ed25519.SeedSize:
		return ed25519.NewKeyFromSeed(raw), nil
	case ed25519.PrivateKeySize:
		return ed25519.PrivateKey(raw), nil
	default:
		return nil, fmt.Errorf("expected %d or %d bytes, got %d", ed25519.SeedSize, ed25519.PrivateKeySize, len(raw))
	}
}
