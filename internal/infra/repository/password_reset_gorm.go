package repository

import (
	"context"
	"errors"
	"time"

	"farmmart/internal/domain/model"
	repo "farmmart/internal/repository"

	"gorm.io/gorm"
)

type PasswordResetGormRepository struct {
	db *gorm.DB
}

// DI
func NewPasswordResetGormRepository(db *gorm.DB) *PasswordResetGormRepository {
	return &PasswordResetGormRepository{db: db}
}

func (r *PasswordResetGormRepository) Create(ctx context.Context, reset model.PasswordReset) error {
	return r.db.WithContext(ctx).Create(&reset).Error
}

func (r *PasswordResetGormRepository) FindByTokenHash(ctx context.Context, tokenHash string) (model.PasswordReset, error) {
	var pr model.PasswordReset

	err := r.db.WithContext(ctx).Where("token_hash = ?", tokenHash).First(&pr).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PasswordReset{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PasswordReset{}, err
	}
	return pr, nil
}

func (r *PasswordResetGormRepository) MarkUsed(ctx context.Context, id string, usedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&model.PasswordReset{}).
		Where("id = ?", id).
		Update("used_at", usedAt)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
