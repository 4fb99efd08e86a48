package preapproval

import "errors"

// Service errors
var (
	ErrNotFound               = errors.New("funds pull pre-approval not found")
	ErrInvalidDecision        = errors.New("invalid decision")
	ErrInvalidStateTransition = errors.New("pre-approval is not pending")
	ErrDuplicateApprovalID    = errors.New("approval id already exists for this account")
)
