// Package signer wraps the custodian's long-lived Ed25519 compliance key.
// The key is loaded once at process start from configuration and never
// regenerated; signing is stateless and safe to call concurrently.
package signer

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
)

// Service errors
var (
	ErrKeyNotConfigured = errors.New("compliance private key is not configured")
)

// Service produces compliance signatures over canonical travel-rule
// messages. Signing never retries; a missing key is a configuration fault.
type Service interface {
	Sign(message []byte) ([]byte, error)
	SignHex(message []byte) (string, error)
	PublicKey() ed25519.PublicKey
}

type service struct {
	key ed25519.PrivateKey
}

func NewService(key ed25519.PrivateKey) (Service, error) {
	if len(key) != ed25519.PrivateKeySize {
		return nil, ErrKeyNotConfigured
	}
	return &service{key: key}, nil
}

func (s *service) Sign(message []byte) ([]byte, error) {
	if len(s.key) != ed25519.PrivateKeySize {
		return nil, ErrKeyNotConfigured
	}
	return ed25519.Sign(s.key, message), nil
}

func (s *service) SignHex(message []byte) (string, error) {
	sig, err := s.Sign(message)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(sig), nil
}

func (s *service) PublicKey() ed25519.PublicKey {
	return s.key.Public().(ed25519.PublicKey)
}
