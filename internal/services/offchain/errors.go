package offchain

import "errors"

// Evaluation errors
var (
	// ErrSubAddressResolution marks a receiver sub-address that cannot be
	// decoded or does not map to a known local account.
	ErrSubAddressResolution = errors.New("sub-address resolution failed")

	// ErrSigningFailed marks a travel-rule signature that could not be
	// produced. Not retried; it indicates misconfiguration.
	ErrSigningFailed = errors.New("travel-rule signing failed")
)
