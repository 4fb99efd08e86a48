package signer

import (
	"crypto/ed25519"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(t *testing.T) ed25519.PrivateKey {
	t.Helper()
	seed := make([]byte, ed25519.SeedSize)
	for i := range seed {
		seed[i] = byte(i + 1)
	}
	return ed25519.NewKeyFromSeed(seed)
}

func TestNewService_RejectsInvalidKeys(t *testing.T) {
	tests := []struct {
		name string
		key  ed25519.PrivateKey
	}{
		{name: "nil key", key: nil},
		{name: "truncated key", key: testKey(t)[:16]},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewService(tt.key)
			assert.ErrorIs(t, err, ErrKeyNotConfigured)
		})
	}
}

func TestService_Sign(t *testing.T) {
	key := testKey(t)
	svc, err := NewService(key)
	require.NoError(t, err)

	message := []byte("ref-1@settlement-attest")

	sig, err := svc.Sign(message)
	require.NoError(t, err)
	assert.True(t, ed25519.Verify(svc.PublicKey(), message, sig))

	// Ed25519 signatures are deterministic for a fixed key and message.
	again, err := svc.Sign(message)
	require.NoError(t, err)
	assert.Equal(t, sig, again)
}

func TestService_SignHex(t *testing.T) {
	svc, err := NewService(testKey(t))
	require.NoError(t, err)

	message := []byte("payload")
	sigHex, err := svc.SignHex(message)
	require.NoError(t, err)

	sig, err := hex.DecodeString(sigHex)
	require.NoError(t, err)
	assert.Len(t, sig, ed25519.SignatureSize)
	assert.True(t, ed25519.Verify(svc.PublicKey(), message, sig))
}
