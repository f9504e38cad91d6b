package model

import "time"

// カート明細。(user_id, product_id) で一意。
// 同じ商品を再追加したら行を増やさず数量を加算する。
// 追加時点の商品情報をスナップショットとして持つ（後から価格が変わっても反映しない）。
type CartItem struct {
	ID        int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    int64 `gorm:"not null;uniqueIndex:uq_cart_user_product" json:"user_id"`
	ProductID int64 `gorm:"not null;uniqueIndex:uq_cart_user_product" json:"product_id"`
	Quantity  int64 `gorm:"not null" json:"quantity"`

	// 追加時点のスナップショット
	ProductName  string `gorm:"type:varchar(255);not null" json:"product_name"`
	UnitPrice    int64  `gorm:"not null;column:unit_price_snapshot" json:"unit_price"`
	ProductImage string `gorm:"type:text" json:"product_image"`
	Category     string `gorm:"type:varchar(100)" json:"category"`
	SellerID     int64  `gorm:"not null" json:"seller_id"`
	SellerName   string `gorm:"type:varchar(255)" json:"seller_name"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
