package repositories

import (
	"errors"

	"custos/internal/models"

	"gorm.io/gorm"
)

// PreApprovalRepository persists funds-pull pre-approvals. Records are only
// ever status-transitioned, never deleted.
type PreApprovalRepository interface {
	Create(approval *models.FundsPullPreApproval) error
	GetByApprovalID(approvalID string) (*models.FundsPullPreApproval, error)
	ListByAccount(accountID uint) ([]models.FundsPullPreApproval, error)

	// TransitionStatus applies a compare-and-swap status update and reports
	// whether a row in fromStatus was transitioned. The single UPDATE keeps
	// concurrent decisions on the same approval serialized by the row lock.
	TransitionStatus(approvalID, fromStatus, toStatus string) (bool, error)
}

type preApprovalRepository struct {
	db *gorm.DB
}

func NewPreApprovalRepository(db *gorm.DB) PreApprovalRepository {
	return &preApprovalRepository{db: db}
}

func (r *preApprovalRepository) Create(approval *models.FundsPullPreApproval) error {
	return r.db.Create(approval).Error
}

func (r *preApprovalRepository) GetByApprovalID(approvalID string) (*models.FundsPullPreApproval, error) {
	var approval models.FundsPullPreApproval
	err := r.db.Where("approval_id = ?", approvalID).First(&approval).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPreApprovalNotFound
		}
		return nil, err
	}
	return &approval, nil
}

func (r *preApprovalRepository) ListByAccount(accountID uint) ([]models.FundsPullPreApproval, error) {
	var approvals []models.FundsPullPreApproval
	err := r.db.Where("account_id = ?", accountID).Order("id asc").Find(&approvals).Error
	return approvals, err
}

func (r *preApprovalRepository) TransitionStatus(approvalID, fromStatus, toStatus string) (bool, error) {
	result := r.db.Model(&models.FundsPullPreApproval{}).
		Where("approval_id = ? AND status = ?", approvalID, fromStatus).
		Update("status", toStatus)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
