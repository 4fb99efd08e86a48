// Package addressing encodes and decodes composite account identifiers and
// allocates receiving sub-addresses for local accounts.
//
// An identifier is the bech32 encoding, under a network human-readable
// prefix, of a version byte followed by the custodian's 16-byte on-chain
// address and an 8-byte sub-address. A zero sub-address stands for "none".
package addressing

import (
	"bytes"
	"fmt"

	"github.com/btcsuite/btcd/btcutil/bech32"
)

const (
	// AddressLength is the byte length of an on-chain address.
	AddressLength = 16
	// SubAddressLength is the byte length of a sub-address.
	SubAddressLength = 8

	identifierVersion = byte(1)
)

// Codec converts between (on-chain address, sub-address) pairs and account
// identifiers under a fixed network prefix. Encode and Decode are pure and
// deterministic.
type Codec struct {
	hrp string
}

func NewCodec(hrp string) *Codec {
	if hrp == "" {
		panic("network prefix is required")
	}
	return &Codec{hrp: hrp}
}

// HRP returns the network prefix this codec encodes under.
func (c *Codec) HRP() string { return c.hrp }

// Encode renders an account identifier for the given on-chain address and
// optional sub-address. A nil sub-address encodes as all zero bytes.
func (c *Codec) Encode(onChain, subAddress []byte) (string, error) {
	if len(onChain) != AddressLength {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidAddress, AddressLength, len(onChain))
	}
	if subAddress == nil {
		subAddress = make([]byte, SubAddressLength)
	}
	if len(subAddress) != SubAddressLength {
		return "", fmt.Errorf("%w: expected %d bytes, got %d", ErrInvalidSubAddress, SubAddressLength, len(subAddress))
	}

	payload := make([]byte, 0, len(onChain)+len(subAddress))
	payload = append(payload, onChain...)
	payload = append(payload, subAddress...)

	converted, err := bech32.ConvertBits(payload, 8, 5, true)
	if err != nil {
		return "", fmt.Errorf("identifier encoding failed: %w", err)
	}

	data := append([]byte{identifierVersion}, converted...)
	encoded, err := bech32.Encode(c.hrp, data)
	if err != nil {
		return "", fmt.Errorf("identifier encoding failed: %w", err)
	}
	return encoded, nil
}

// Decode parses an account identifier into its on-chain address and
// sub-address. The sub-address is nil when the identifier carries none.
func (c *Codec) Decode(identifier string) (onChain, subAddress []byte, err error) {
	hrp, data, err := bech32.DecodeNoLimit(identifier)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedIdentifier, err)
	}
	if hrp != c.hrp {
		return nil, nil, fmt.Errorf("%w: network prefix %q, expected %q", ErrMalformedIdentifier, hrp, c.hrp)
	}
	if len(data) < 1 || data[0] != identifierVersion {
		return nil, nil, fmt.Errorf("%w: unsupported identifier version", ErrMalformedIdentifier)
	}

	payload, err := bech32.ConvertBits(data[1:], 5, 8, false)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedIdentifier, err)
	}
	if len(payload) != AddressLength+SubAddressLength {
		return nil, nil, fmt.Errorf("%w: payload is %d bytes, expected %d", ErrMalformedIdentifier, len(payload), AddressLength+SubAddressLength)
	}

	onChain = payload[:AddressLength]
	subAddress = payload[AddressLength:]
	if bytes.Equal(subAddress, make([]byte, SubAddressLength)) {
		subAddress = nil
	}
	return onChain, subAddress, nil
}
