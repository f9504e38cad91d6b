package model

import "time"

// 出品者ディレクトリのステータス（公開側）
type SellerStatus string

const (
	SellerStatusPending             SellerStatus = "PENDING"
	SellerStatusPendingVerification SellerStatus = "PENDING_VERIFICATION"
	SellerStatusActive              SellerStatus = "ACTIVE"
)

// 承認済み出品者の公開プロフィール。
// UserIDはusersと同じIDを共有する。
// 「承認されたことがあり、かつ停止されていない場合に限り存在する」が不変条件。
// suspend では行ごと削除して再審査をやり直させる。
type Seller struct {
	UserID       int64        `gorm:"primaryKey" json:"user_id"`
	ShopName     string       `gorm:"type:varchar(255);not null" json:"shop_name"`
	OwnerName    string       `gorm:"type:varchar(255);not null" json:"owner_name"`
	PhoneNumber  string       `gorm:"type:varchar(30)" json:"phone_number"`
	TaxID        string       `gorm:"type:varchar(50)" json:"-"`
	Status       SellerStatus `gorm:"type:varchar(30);not null;index" json:"status"`
	Rating       float64      `gorm:"not null;default:0" json:"rating"`
	TotalSales   int64        `gorm:"not null;default:0" json:"total_sales"`
	VerifiedDocs bool         `gorm:"not null;default:false" json:"verified_docs"`
	CreatedAt    time.Time    `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
