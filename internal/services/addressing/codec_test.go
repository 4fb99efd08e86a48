package addressing

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("tvasp")

	tests := []struct {
		name       string
		onChain    []byte
		subAddress []byte
	}{
		{
			name:       "address with sub-address",
			onChain:    bytes.Repeat([]byte{0x11}, AddressLength),
			subAddress: []byte{0xAB, 0x12, 0x00, 0x01, 0x02, 0x03, 0x04, 0x05},
		},
		{
			name:       "address without sub-address",
			onChain:    bytes.Repeat([]byte{0xFE}, AddressLength),
			subAddress: nil,
		},
		{
			name:       "high byte values",
			onChain:    bytes.Repeat([]byte{0xFF}, AddressLength),
			subAddress: bytes.Repeat([]byte{0xFF}, SubAddressLength),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			identifier, err := codec.Encode(tt.onChain, tt.subAddress)
			require.NoError(t, err)

			onChain, subAddress, err := codec.Decode(identifier)
			require.NoError(t, err)
			assert.Equal(t, tt.onChain, onChain)
			assert.Equal(t, tt.subAddress, subAddress)
		})
	}
}

func TestCodec_EncodeDeterministic(t *testing.T) {
	codec := NewCodec("tvasp")
	onChain := bytes.Repeat([]byte{0x42}, AddressLength)
	sub := bytes.Repeat([]byte{0x07}, SubAddressLength)

	first, err := codec.Encode(onChain, sub)
	require.NoError(t, err)
	second, err := codec.Encode(onChain, sub)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCodec_EncodeInvalidLengths(t *testing.T) {
	codec := NewCodec("tvasp")

	_, err := codec.Encode([]byte{0x01}, nil)
	assert.ErrorIs(t, err, ErrInvalidAddress)

	_, err = codec.Encode(bytes.Repeat([]byte{0x01}, AddressLength), []byte{0x01})
	assert.ErrorIs(t, err, ErrInvalidSubAddress)
}

func TestCodec_DecodeMalformed(t *testing.T) {
	codec := NewCodec("tvasp")
	other := NewCodec("other")

	validForOther, err := other.Encode(bytes.Repeat([]byte{0x11}, AddressLength), nil)
	require.NoError(t, err)

	tests := []struct {
		name       string
		identifier string
	}{
		{name: "empty string", identifier: ""},
		{name: "not bech32", identifier: "this is not an identifier"},
		{name: "wrong network prefix", identifier: validForOther},
		{name: "corrupted checksum", identifier: corruptLastChar(t, codec)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := codec.Decode(tt.identifier)
			assert.ErrorIs(t, err, ErrMalformedIdentifier)
		})
	}
}

func corruptLastChar(t *testing.T, codec *Codec) string {
	t.Helper()
	identifier, err := codec.Encode(bytes.Repeat([]byte{0x11}, AddressLength), nil)
	require.NoError(t, err)

	last := identifier[len(identifier)-1]
	replacement := byte('q')
	if last == replacement {
		replacement = 'p'
	}
	return identifier[:len(identifier)-1] + string(replacement)
}
