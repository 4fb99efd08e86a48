package repositories

import "errors"

// Repository errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrKycProfileNotFound  = errors.New("kyc profile not found")
	ErrSubAddressNotFound  = errors.New("sub-address not found")
	ErrCommandNotFound     = errors.New("payment command not found")
	ErrPreApprovalNotFound = errors.New("funds pull pre-approval not found")
)
