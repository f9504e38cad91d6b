package model

import "time"

// 管理者操作の種類
type AuditAction string

const (
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//出品者を承認した操作。
	AuditActionApproveSeller AuditAction = "APPROVE_SELLER"
	//出品者を却下した操作。
	AuditActionRejectSeller AuditAction = "REJECT_SELLER"
	//出品者を停止した操作。
	AuditActionSuspendSeller AuditAction = "SUSPEND_SELLER"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder  AuditResourceType = "order"
	AuditResourceSeller AuditResourceType = "seller"
	AuditResourceUser   AuditResourceType = "user"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	ActorUserID  int64             `gorm:"not null;index" json:"actor_user_id"`
	Action       AuditAction       `gorm:"type:varchar(50);not null;index" json:"action"`
	ResourceType AuditResourceType `gorm:"type:varchar(30);not null" json:"resource_type"`
	ResourceID   int64             `gorm:"not null" json:"resource_id"`
	BeforeJSON   string            `gorm:"type:text" json:"before_json"`
	AfterJSON    string            `gorm:"type:text" json:"after_json"`
	CreatedAt    time.Time         `gorm:"not null;autoCreateTime" json:"created_at"`
}
