package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Category    string `gorm:"type:varchar(100);index" json:"category"`
	Tag         string `gorm:"type:varchar(100)" json:"tag"`
	Description string `gorm:"type:text" json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	Stock       int64  `gorm:"not null" json:"stock"`
	ImageURL    string `gorm:"type:text" json:"image_url"`

	// 所有する出品者（非正規化した表示名つき）
	SellerID   int64  `gorm:"not null;index" json:"seller_id"`
	SellerName string `gorm:"type:varchar(255)" json:"seller_name"`

	Rating      float64        `gorm:"not null;default:0" json:"rating"`
	ReviewCount int64          `gorm:"not null;default:0" json:"review_count"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}
