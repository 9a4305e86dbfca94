package repository

import (
	"context"

	"campusfeed/internal/cache"
	"campusfeed/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	// ListIDsExcept returns the ids of every active user except excludeID.
	ListIDsExcept(ctx context.Context, excludeID uint) ([]uint, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err, "User", 0)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := cache.Aside(ctx, cache.UserKey(id), &user, cache.UserTTL, func() error {
		return r.db.WithContext(ctx).First(&user, id).Error
	})
	if err != nil {
		return nil, translate(err, "User", id)
	}
	return &user, nil
}

func (r *userRepository) ListIDsExcept(ctx context.Context, excludeID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id <> ? AND is_active = ?", excludeID, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, translate(err, "User", 0)
	}
	return ids, nil
}
