package model

import "time"

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleSeller   Role = "SELLER"
	RoleDelivery Role = "DELIVERY"
	RoleAdmin    Role = "ADMIN"
)

// 出品者アカウントの審査ステータス。
// CUSTOMER/DELIVERY/ADMIN は常に空文字のまま。
type UserStatus string

const (
	UserStatusNone                UserStatus = ""
	UserStatusPending             UserStatus = "PENDING"
	UserStatusPendingVerification UserStatus = "PENDING_VERIFICATION"
	UserStatusApproved            UserStatus = "APPROVED"
	UserStatusRejected            UserStatus = "REJECTED"
)

type User struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string     `gorm:"column:password_hash;not null" json:"-"`
	Name         string     `gorm:"type:varchar(255);not null" json:"name"`
	Role         Role       `gorm:"type:varchar(20);not null;default:'CUSTOMER'" json:"role"`
	Status       UserStatus `gorm:"type:varchar(30);not null;default:''" json:"status"`

	// 出品者のみ使用
	ShopName       string `gorm:"type:varchar(255)" json:"shop_name,omitempty"`
	PhoneNumber    string `gorm:"type:varchar(30)" json:"phone_number,omitempty"`
	TaxID          string `gorm:"type:varchar(50)" json:"tax_id,omitempty"`
	IdentityDocURL string `gorm:"type:text" json:"identity_doc_url,omitempty"`
	LicenseDocURL  string `gorm:"type:text" json:"license_doc_url,omitempty"`

	IsActive  bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 書類が2点そろっているか
func (u User) HasAllDocuments() bool {
	return u.IdentityDocURL != "" && u.LicenseDocURL != ""
}

// 審査ステータスの遷移表。ここに無い遷移はすべて拒否する。
func NextUserStatuses(current UserStatus) []UserStatus {
	switch current {
	case UserStatusNone:
		return []UserStatus{UserStatusPending}
	case UserStatusPending:
		return []UserStatus{UserStatusPendingVerification}
	case UserStatusPendingVerification:
		return []UserStatus{UserStatusApproved, UserStatusRejected}
	case UserStatusApproved:
		// suspend で審査前に戻す（再入可能なのはここだけ）
		return []UserStatus{UserStatusPending}
	case UserStatusRejected:
		return []UserStatus{UserStatusPendingVerification}
	default:
		return nil
	}
}

func CanTransitionUserStatus(from, to UserStatus) bool {
	for _, s := range NextUserStatuses(from) {
		if s == to {
			return true
		}
	}
	return false
}

// 出品者が次に見るべき画面。(status, documents) から毎回導出する。
type SellerRoute string

const (
	SellerRouteUpload    SellerRoute = "UPLOAD"
	SellerRouteWaiting   SellerRoute = "WAITING"
	SellerRouteDashboard SellerRoute = "DASHBOARD"
	SellerRouteRejected  SellerRoute = "REJECTED"
)

func RouteForSeller(u User) SellerRoute {
	switch {
	case u.Status == UserStatusRejected:
		return SellerRouteRejected
	case u.Status == UserStatusApproved:
		return SellerRouteDashboard
	case u.HasAllDocuments():
		return SellerRouteWaiting
	default:
		return SellerRouteUpload
	}
}
