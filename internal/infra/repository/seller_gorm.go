package repository

import (
	"context"
	"errors"

	"farmmart/internal/domain/model"
	repo "farmmart/internal/repository"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SellerGormRepository struct {
	db *gorm.DB
}

// DI
func NewSellerGormRepository(db *gorm.DB) *SellerGormRepository {
	return &SellerGormRepository{db: db}
}

// user_idをキーに作成または上書き
func (r *SellerGormRepository) Upsert(ctx context.Context, seller model.Seller) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"shop_name", "owner_name", "phone_number", "tax_id",
				"status", "rating", "total_sales", "verified_docs", "updated_at",
			}),
		}).
		Create(&seller).Error
}

func (r *SellerGormRepository) FindByUserID(ctx context.Context, userID int64) (model.Seller, error) {
	var s model.Seller

	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Seller{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Seller{}, err
	}
	return s, nil
}

// 停止時の削除。既に無ければ ErrNotFound。
func (r *SellerGormRepository) Delete(ctx context.Context, userID int64) error {
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Seller{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *SellerGormRepository) ListActive(ctx context.Context) ([]model.Seller, error) {
	var sellers []model.Seller

	if err := r.db.WithContext(ctx).
		Where("status = ?", model.SellerStatusActive).
		Order("shop_name asc").
		Find(&sellers).Error; err != nil {
		return []model.Seller{}, err
	}

	return sellers, nil
}

func (r *SellerGormRepository) CountActive(ctx context.Context) (int64, error) {
	var n int64

	err := r.db.WithContext(ctx).
		Model(&model.Seller{}).
		Where("status = ?", model.SellerStatusActive).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SellerGormRepository) UpdateTotalSales(ctx context.Context, userID int64, totalSales int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Seller{}).
		Where("user_id = ?", userID).
		Update("total_sales", totalSales)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
