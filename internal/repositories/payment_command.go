package repositories

import (
	"context"
	"errors"

	"custos/internal/models"
	"custos/internal/repositories/cache"

	"gorm.io/gorm"
)

// PaymentCommandRepository persists the latest version of each payment
// command, keyed by reference id.
type PaymentCommandRepository interface {
	Save(record *models.PaymentCommand) error
	GetByReferenceID(referenceID string) (*models.PaymentCommand, error)
	ListByAccount(accountID uint) ([]models.PaymentCommand, error)
}

type paymentCommandRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

func NewPaymentCommandRepository(db *gorm.DB, cacheService *cache.CacheService) PaymentCommandRepository {
	return &paymentCommandRepository{db: db, cache: cacheService}
}

// Save upserts by reference id, keeping the row's primary key stable so the
// audit trail of a negotiation stays on one record.
func (r *paymentCommandRepository) Save(record *models.PaymentCommand) error {
	var existing models.PaymentCommand
	err := r.db.Where("reference_id = ?", record.ReferenceID).First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = r.db.Create(record).Error
	case err == nil:
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
		err = r.db.Save(record).Error
	}
	if err != nil {
		return err
	}

	if r.cache != nil {
		_ = r.cache.CachePaymentCommand(context.Background(), record)
	}
	return nil
}

func (r *paymentCommandRepository) GetByReferenceID(referenceID string) (*models.PaymentCommand, error) {
	if r.cache != nil {
		if record, err := r.cache.GetPaymentCommand(context.Background(), referenceID); err == nil && record != nil {
			return record, nil
		}
	}

	var record models.PaymentCommand
	err := r.db.Where("reference_id = ?", referenceID).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCommandNotFound
		}
		return nil, err
	}

	if r.cache != nil {
		_ = r.cache.CachePaymentCommand(context.Background(), &record)
	}
	return &record, nil
}

func (r *paymentCommandRepository) ListByAccount(accountID uint) ([]models.PaymentCommand, error) {
	var records []models.PaymentCommand
	err := r.db.Where("account_id = ?", accountID).Order("id asc").Find(&records).Error
	return records, err
}
