package repository

import (
	"context"

	"farmmart/internal/domain/model"
	repo "farmmart/internal/repository"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

// DI
func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *AuditLogGormRepository) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	tx := r.db.WithContext(ctx).Model(&model.AuditLog{})

	if filter.ActorUserID != nil {
		tx = tx.Where("actor_user_id = ?", *filter.ActorUserID)
	}
	if filter.Action != nil {
		tx = tx.Where("action = ?", *filter.Action)
	}
	if filter.ResourceType != nil {
		tx = tx.Where("resource_type = ?", *filter.ResourceType)
	}
	if filter.ResourceID != nil {
		tx = tx.Where("resource_id = ?", *filter.ResourceID)
	}
	if filter.CreatedFrom != nil {
		tx = tx.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		tx = tx.Where("created_at <= ?", *filter.CreatedTo)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	var logs []model.AuditLog
	if err := tx.Order("id desc").Limit(limit).Offset(filter.Offset).Find(&logs).Error; err != nil {
		return []model.AuditLog{}, err
	}

	return logs, nil
}
