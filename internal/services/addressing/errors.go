package addressing

import "errors"

// Service errors
var (
	ErrMalformedIdentifier = errors.New("malformed account identifier")
	ErrInvalidAddress      = errors.New("invalid on-chain address")
	ErrInvalidSubAddress   = errors.New("invalid sub-address")
	ErrAllocationFailed    = errors.New("sub-address allocation failed")
)
