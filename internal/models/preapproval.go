package models

import "gorm.io/gorm"

// Funds-pull pre-approval statuses. A pre-approval starts pending and can
// only move to approved or rejected; it is closed by the biller side and is
// never hard-deleted.
const (
	PreApprovalStatusPending  = "pending"
	PreApprovalStatusApproved = "approved"
	PreApprovalStatusRejected = "rejected"
	PreApprovalStatusClosed   = "closed"
)

// FundsPullPreApproval is a standing consent letting a biller pull funds
// from a payer account up to the recorded limits. The approval id is unique
// per payer account, enforced by the composite index.
type FundsPullPreApproval struct {
	gorm.Model
	AccountID                    uint   `gorm:"not null;uniqueIndex:idx_account_approval_id"`
	ApprovalID                   string `gorm:"not null;uniqueIndex:idx_account_approval_id;index"`
	Address                      string `gorm:"not null"`
	BillerAddress                string `gorm:"not null"`
	Type                         string
	ExpirationTimestamp          int64
	MaxCumulativeUnit            string
	MaxCumulativeUnitValue       int64
	MaxCumulativeAmount          uint64
	MaxCumulativeAmountCurrency  string
	MaxTransactionAmount         uint64
	MaxTransactionAmountCurrency string
	Description                  string
	Status                       string `gorm:"default:'pending'"`
}
