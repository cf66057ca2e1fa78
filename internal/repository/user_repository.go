package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"mindease-chat/internal/model"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create user failed: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUID(uid string) (*model.User, error) {
	var user model.User
	if err := r.db.Where("uid = ?", uid).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query user by uid failed: %w", err)
	}
	return &user, nil
}

func (r *UserRepository) UpdateLastLogin(uid string, at time.Time) error {
	if err := r.db.Model(&model.User{}).Where("uid = ?", uid).Update("last_login_at", at).Error; err != nil {
		return fmt.Errorf("update last login failed: %w", err)
	}
	return nil
}
