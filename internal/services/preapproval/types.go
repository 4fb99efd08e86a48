package preapproval

// Decision values accepted when resolving a pending pre-approval.
const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// CreateParams carries the fields of a payer-initiated pre-approval.
// Monetary amounts are integers in minor currency units; currency codes are
// validated by the schema layer, not here.
type CreateParams struct {
	AccountID                    uint
	BillerAddress                string
	ApprovalID                   string
	Type                         string
	ExpirationTimestamp          int64
	MaxCumulativeUnit            string
	MaxCumulativeUnitValue       int64
	MaxCumulativeAmount          uint64
	MaxCumulativeAmountCurrency  string
	MaxTransactionAmount         uint64
	MaxTransactionAmountCurrency string
	Description                  string
}
