package repository

import (
	"context"

	"github.com/wasssssim/verger-du-coin/internal/model"

	"gorm.io/gorm"
)

type UserRepository interface {
	CRUD[model.User]
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

type userRepo struct{ *crudRepo[model.User] }

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{newCRUD[model.User](db, "username ASC")}
}

func (r *userRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ? AND is_active = ?", username, true).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
