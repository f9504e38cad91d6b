package model

import "time"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "PENDING"
	OrderStatusProcessing     OrderStatus = "PROCESSING"
	OrderStatusShipped        OrderStatus = "SHIPPED"
	OrderStatusOutForDelivery OrderStatus = "OUT_FOR_DELIVERY"
	OrderStatusDelivered      OrderStatus = "DELIVERED"
	OrderStatusCancelled      OrderStatus = "CANCELLED"
)

// 注文ステータスの遷移表。前進のみ。
// CANCELLED へは終端前ならどこからでも入れる。
// DELIVERED / CANCELLED は終端で、以後の遷移は一切受け付けない。
func NextOrderStatuses(current OrderStatus) []OrderStatus {
	switch current {
	case OrderStatusPending:
		return []OrderStatus{OrderStatusProcessing, OrderStatusCancelled}
	case OrderStatusProcessing:
		return []OrderStatus{OrderStatusShipped, OrderStatusCancelled}
	case OrderStatusShipped:
		return []OrderStatus{OrderStatusOutForDelivery, OrderStatusCancelled}
	case OrderStatusOutForDelivery:
		return []OrderStatus{OrderStatusDelivered, OrderStatusCancelled}
	default:
		return nil
	}
}

func CanTransitionOrderStatus(from, to OrderStatus) bool {
	for _, s := range NextOrderStatuses(from) {
		if s == to {
			return true
		}
	}
	return false
}

func IsTerminalOrderStatus(s OrderStatus) bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func ParseOrderStatus(s string) (OrderStatus, bool) {
	switch OrderStatus(s) {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusShipped,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return OrderStatus(s), true
	default:
		return "", false
	}
}

type ShippingAddress struct {
	Address string `gorm:"type:text;column:ship_address" json:"address"`
	City    string `gorm:"type:varchar(100);column:ship_city" json:"city"`
	Zip     string `gorm:"type:varchar(20);column:ship_zip" json:"zip"`
}

// 注文はカート明細1行につき1件作る（カート1つで1件ではない）。
// totalは注文作成時に price × quantity で確定し、以後再計算しない。
type Order struct {
	ID      int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo string `gorm:"type:varchar(30);not null;uniqueIndex" json:"order_no"`

	ProductID    int64  `gorm:"not null;index" json:"product_id"`
	ProductName  string `gorm:"type:varchar(255);not null" json:"product_name"`
	ProductImage string `gorm:"type:text" json:"product_image"`
	Price        int64  `gorm:"not null" json:"price"`
	Quantity     int64  `gorm:"not null" json:"quantity"`
	Total        int64  `gorm:"not null" json:"total"`

	SellerID   int64  `gorm:"not null;index" json:"seller_id"`
	SellerName string `gorm:"type:varchar(255)" json:"seller_name"`

	CustomerID    int64  `gorm:"not null;index" json:"customer_id"`
	CustomerName  string `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(255)" json:"customer_email"`
	CustomerPhone string `gorm:"type:varchar(30)" json:"customer_phone"`

	ShippingAddress ShippingAddress `gorm:"embedded" json:"shipping_address"`
	PaymentMethod   string          `gorm:"type:varchar(50)" json:"payment_method"`

	Status OrderStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	// 配達確認コード。OUT_FOR_DELIVERY遷移時に発行し、使用か期限切れで無効。
	DeliveryCode          string     `gorm:"type:varchar(8)" json:"-"`
	DeliveryCodeExpiresAt *time.Time `json:"-"`

	// レビューは注文ドキュメントへの可変な注記（DELIVERED後のみ書ける）
	ReviewRating  int        `gorm:"not null;default:0" json:"review_rating,omitempty"`
	ReviewComment string     `gorm:"type:text" json:"review_comment,omitempty"`
	ReviewedAt    *time.Time `json:"reviewed_at,omitempty"`
	ReviewerName  string     `gorm:"type:varchar(255)" json:"reviewer_name,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

func (o Order) HasReview() bool {
	return o.ReviewedAt != nil
}
