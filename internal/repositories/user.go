package repositories

import (
	"context"
	"errors"

	"custos/internal/models"
	"custos/internal/repositories/cache"

	"gorm.io/gorm"
)

// UserRepository provides access to wallet users and their compliance
// profiles.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	Update(user *models.User) error
	IncrementTokenVersion(userID uint) error

	GetKycProfile(userID uint) (*models.KycProfile, error)
	SaveKycProfile(profile *models.KycProfile) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.CacheService
}

// NewUserRepository creates a user repository backed by PostgreSQL with a
// Redis read-through cache for id lookups.
func NewUserRepository(db *gorm.DB, cacheService *cache.CacheService) UserRepository {
	return &userRepository{db: db, cache: cacheService}
}

func (r *userRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *userRepository) GetByID(id uint) (*models.User, error) {
	if r.cache != nil {
		var user models.User
		key := r.cache.GenerateKey("user", "id", id)
		if found, err := r.cache.Get(context.Background(), key, &user); err == nil && found {
			return &user, nil
		}
	}

	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if r.cache != nil {
		key := r.cache.GenerateKey("user", "id", id)
		_ = r.cache.Set(context.Background(), key, &user)
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(user *models.User) error {
	if err := r.db.Save(user).Error; err != nil {
		return err
	}
	if r.cache != nil {
		_ = r.cache.Delete(context.Background(), r.cache.GenerateKey("user", "id", user.ID))
	}
	return nil
}

func (r *userRepository) IncrementTokenVersion(userID uint) error {
	err := r.db.Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
	if err != nil {
		return err
	}
	if r.cache != nil {
		_ = r.cache.Delete(context.Background(), r.cache.GenerateKey("user", "id", userID))
	}
	return nil
}

func (r *userRepository) GetKycProfile(userID uint) (*models.KycProfile, error) {
	var profile models.KycProfile
	if err := r.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKycProfileNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *userRepository) SaveKycProfile(profile *models.KycProfile) error {
	return r.db.Save(profile).Error
}
