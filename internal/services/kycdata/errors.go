package kycdata

import "errors"

// Service errors
var (
	ErrUserNotFound = errors.New("user not found")
)
