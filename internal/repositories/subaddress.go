package repositories

import (
	"errors"

	"custos/internal/models"

	"gorm.io/gorm"
)

// SubAddressRepository persists the sub-address to account mapping.
// Create surfaces gorm.ErrDuplicatedKey on collision so callers can retry
// with a fresh sub-address.
type SubAddressRepository interface {
	Create(mapping *models.SubAddress) error
	ResolveSubAddress(subAddressHex string) (uint, error)
}

type subAddressRepository struct {
	db *gorm.DB
}

func NewSubAddressRepository(db *gorm.DB) SubAddressRepository {
	return &subAddressRepository{db: db}
}

func (r *subAddressRepository) Create(mapping *models.SubAddress) error {
	return r.db.Create(mapping).Error
}

func (r *subAddressRepository) ResolveSubAddress(subAddressHex string) (uint, error) {
	var mapping models.SubAddress
	err := r.db.Where("sub_address_hex = ?", subAddressHex).First(&mapping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrSubAddressNotFound
		}
		return 0, err
	}
	return mapping.AccountID, nil
}
