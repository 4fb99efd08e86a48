// Package preapproval manages the lifecycle of funds-pull pre-approvals:
// standing consents that let a biller pull funds from a payer account up to
// defined limits, independent of any single payment command.
//
// The state machine per approval id is pending -> approved and
// pending -> rejected; nothing else. Records are never hard-deleted.
package preapproval

import (
	"context"
	"errors"
	"fmt"

	"custos/internal/models"
	"custos/internal/repositories"
	"custos/internal/services/addressing"

	"gorm.io/gorm"
)

// Cache is the read cache for per-account approval lists. Implemented by
// the Redis cache service; a nil-safe no-op is used in tests.
type Cache interface {
	CachePreApprovals(ctx context.Context, accountID uint, approvals []models.FundsPullPreApproval) error
	GetPreApprovals(ctx context.Context, accountID uint) ([]models.FundsPullPreApproval, bool, error)
	InvalidatePreApprovals(ctx context.Context, accountID uint) error
}

// Service manages funds-pull pre-approvals for local payer accounts.
type Service interface {
	// Approve resolves a pending pre-approval with the given decision,
	// "approved" or "rejected".
	Approve(ctx context.Context, approvalID, decision string) error

	// CreateAndApprove records a payer-initiated pre-approval directly in
	// the approved state.
	CreateAndApprove(ctx context.Context, params CreateParams) (*models.FundsPullPreApproval, error)

	// List returns the account's pre-approvals in creation order.
	List(ctx context.Context, accountID uint) ([]models.FundsPullPreApproval, error)

	// Get looks up a single pre-approval by its id.
	Get(ctx context.Context, approvalID string) (*models.FundsPullPreApproval, error)
}

type service struct {
	repo      repositories.PreApprovalRepository
	addresses addressing.Service
	cache     Cache
}

// NewService creates a pre-approval service. The cache is optional.
func NewService(repo repositories.PreApprovalRepository, addresses addressing.Service, cache Cache) Service {
	if repo == nil {
		panic("pre-approval repository is required")
	}
	if addresses == nil {
		panic("addressing service is required")
	}
	if cache == nil {
		cache = noopCache{}
	}

	return &service{
		repo:      repo,
		addresses: addresses,
		cache:     cache,
	}
}

func (s *service) Approve(ctx context.Context, approvalID, decision string) error {
	approval, err := s.repo.GetByApprovalID(approvalID)
	if err != nil {
		if errors.Is(err, repositories.ErrPreApprovalNotFound) {
			return fmt.Errorf("%w: %s", ErrNotFound, approvalID)
		}
		return fmt.Errorf("failed to load pre-approval: %w", err)
	}

	if decision != DecisionApproved && decision != DecisionRejected {
		return fmt.Errorf("%w: %q", ErrInvalidDecision, decision)
	}

	transitioned, err := s.repo.TransitionStatus(approvalID, models.PreApprovalStatusPending, decision)
	if err != nil {
		return fmt.Errorf("failed to update pre-approval: %w", err)
	}
	if !transitioned {
		// The approval exists but has already left pending.
		return fmt.Errorf("%w: %s is %s", ErrInvalidStateTransition, approvalID, approval.Status)
	}

	_ = s.cache.InvalidatePreApprovals(ctx, approval.AccountID)
	return nil
}

func (s *service) CreateAndApprove(ctx context.Context, params CreateParams) (*models.FundsPullPreApproval, error) {
	// The payer self-authorizes, so the consent is born approved under a
	// freshly allocated payer identifier.
	address, err := s.addresses.AccountIdentifier(params.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate payer identifier: %w", err)
	}

	approval := &models.FundsPullPreApproval{
		AccountID:                    params.AccountID,
		ApprovalID:                   params.ApprovalID,
		Address:                      address,
		BillerAddress:                params.BillerAddress,
		Type:                         params.Type,
		ExpirationTimestamp:          params.ExpirationTimestamp,
		MaxCumulativeUnit:            params.MaxCumulativeUnit,
		MaxCumulativeUnitValue:       params.MaxCumulativeUnitValue,
		MaxCumulativeAmount:          params.MaxCumulativeAmount,
		MaxCumulativeAmountCurrency:  params.MaxCumulativeAmountCurrency,
		MaxTransactionAmount:         params.MaxTransactionAmount,
		MaxTransactionAmountCurrency: params.MaxTransactionAmountCurrency,
		Description:                  params.Description,
		Status:                       models.PreApprovalStatusApproved,
	}

	if err := s.repo.Create(approval); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateApprovalID, params.ApprovalID)
		}
		return nil, fmt.Errorf("failed to create pre-approval: %w", err)
	}

	_ = s.cache.InvalidatePreApprovals(ctx, params.AccountID)
	return approval, nil
}

func (s *service) List(ctx context.Context, accountID uint) ([]models.FundsPullPreApproval, error) {
	if approvals, found, err := s.cache.GetPreApprovals(ctx, accountID); err == nil && found {
		return approvals, nil
	}

	approvals, err := s.repo.ListByAccount(accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list pre-approvals: %w", err)
	}

	_ = s.cache.CachePreApprovals(ctx, accountID, approvals)
	return approvals, nil
}

func (s *service) Get(ctx context.Context, approvalID string) (*models.FundsPullPreApproval, error) {
	approval, err := s.repo.GetByApprovalID(approvalID)
	if err != nil {
		if errors.Is(err, repositories.ErrPreApprovalNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, approvalID)
		}
		return nil, err
	}
	return approval, nil
}

type noopCache struct{}

func (noopCache) CachePreApprovals(context.Context, uint, []models.FundsPullPreApproval) error {
	return nil
}

func (noopCache) GetPreApprovals(context.Context, uint) ([]models.FundsPullPreApproval, bool, error) {
	return nil, false, nil
}

func (noopCache) InvalidatePreApprovals(context.Context, uint) error { return nil }
