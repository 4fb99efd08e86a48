package handlers

import (
	"errors"

	"custos/internal/models"
	"custos/internal/services/preapproval"
	"custos/internal/utils/response"

	"github.com/gofiber/fiber/v2"
)

// PreApprovalHandler serves the funds-pull pre-approval workflow for the
// authenticated payer account.
type PreApprovalHandler struct {
	service preapproval.Service
}

func NewPreApprovalHandler(service preapproval.Service) *PreApprovalHandler {
	return &PreApprovalHandler{service: service}
}

// scope mirrors the wire shape of a pre-approval's limits.
type scopePayload struct {
	Type                string `json:"type"`
	ExpirationTimestamp int64  `json:"expiration_timestamp"`
	MaxCumulativeAmount struct {
		Unit      string `json:"unit"`
		Value     int64  `json:"value"`
		MaxAmount struct {
			Amount   uint64 `json:"amount"`
			Currency string `json:"currency"`
		} `json:"max_amount"`
	} `json:"max_cumulative_amount"`
	MaxTransactionAmount struct {
		Amount   uint64 `json:"amount"`
		Currency string `json:"currency"`
	} `json:"max_transaction_amount"`
}

// ListPreApprovals returns the account's pre-approvals in creation order.
func (h *PreApprovalHandler) ListPreApprovals(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	approvals, err := h.service.List(c.Context(), claims.UserID)
	if err != nil {
		return response.ServerError(c, "Failed to load pre-approvals")
	}

	result := make([]fiber.Map, 0, len(approvals))
	for i := range approvals {
		result = append(result, preApprovalToDict(&approvals[i]))
	}

	return c.JSON(fiber.Map{"funds_pull_pre_approvals": result})
}

// UpdatePreApprovalStatus approves or rejects a pending pre-approval.
func (h *PreApprovalHandler) UpdatePreApprovalStatus(c *fiber.Ctx) error {
	if _, err := extractUserClaims(c); err != nil {
		return response.Unauthorized(c)
	}

	approvalID := c.Params("funds_pull_pre_approval_id")

	var input struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	err := h.service.Approve(c.Context(), approvalID, input.Status)
	if err != nil {
		switch {
		case errors.Is(err, preapproval.ErrNotFound):
			return response.NotFound(c, "Funds pull pre-approval "+approvalID+" was not found")
		case errors.Is(err, preapproval.ErrInvalidDecision):
			return response.BadRequest(c, "Status must be approved or rejected")
		case errors.Is(err, preapproval.ErrInvalidStateTransition):
			return response.Conflict(c, "Pre-approval is no longer pending")
		default:
			return response.ServerError(c, "Failed to update pre-approval")
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// CreateAndApprovePreApproval records a payer-initiated pre-approval
// directly in the approved state.
func (h *PreApprovalHandler) CreateAndApprovePreApproval(c *fiber.Ctx) error {
	claims, err := extractUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	var input struct {
		BillerAddress string       `json:"biller_address"`
		ApprovalID    string       `json:"funds_pull_pre_approval_id"`
		Scope         scopePayload `json:"scope"`
		Description   string       `json:"description"`
	}
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if input.BillerAddress == "" || input.ApprovalID == "" {
		return response.BadRequest(c, "biller_address and funds_pull_pre_approval_id are required")
	}

	approval, err := h.service.CreateAndApprove(c.Context(), preapproval.CreateParams{
		AccountID:                    claims.UserID,
		BillerAddress:                input.BillerAddress,
		ApprovalID:                   input.ApprovalID,
		Type:                         input.Scope.Type,
		ExpirationTimestamp:          input.Scope.ExpirationTimestamp,
		MaxCumulativeUnit:            input.Scope.MaxCumulativeAmount.Unit,
		MaxCumulativeUnitValue:       input.Scope.MaxCumulativeAmount.Value,
		MaxCumulativeAmount:          input.Scope.MaxCumulativeAmount.MaxAmount.Amount,
		MaxCumulativeAmountCurrency:  input.Scope.MaxCumulativeAmount.MaxAmount.Currency,
		MaxTransactionAmount:         input.Scope.MaxTransactionAmount.Amount,
		MaxTransactionAmountCurrency: input.Scope.MaxTransactionAmount.Currency,
		Description:                  input.Description,
	})
	if err != nil {
		if errors.Is(err, preapproval.ErrDuplicateApprovalID) {
			return response.BadRequest(c, "Approval id already exists")
		}
		return response.ServerError(c, "Failed to create pre-approval")
	}

	return c.Status(fiber.StatusCreated).JSON(preApprovalToDict(approval))
}

func preApprovalToDict(approval *models.FundsPullPreApproval) fiber.Map {
	return fiber.Map{
		"address":                    approval.Address,
		"biller_address":             approval.BillerAddress,
		"funds_pull_pre_approval_id": approval.ApprovalID,
		"scope": fiber.Map{
			"type":                 approval.Type,
			"expiration_timestamp": approval.ExpirationTimestamp,
			"max_cumulative_amount": fiber.Map{
				"unit":  approval.MaxCumulativeUnit,
				"value": approval.MaxCumulativeUnitValue,
				"max_amount": fiber.Map{
					"amount":   approval.MaxCumulativeAmount,
					"currency": approval.MaxCumulativeAmountCurrency,
				},
			},
			"max_transaction_amount": fiber.Map{
				"amount":   approval.MaxTransactionAmount,
				"currency": approval.MaxTransactionAmountCurrency,
			},
		},
		"description": approval.Description,
		"status":      approval.Status,
	}
}
