package model

import "time"

// 商品承認、注文ステータス更新など。
type AuditAction string

const (
	AuditActionApproveProduct    AuditAction = "APPROVE_PRODUCT"
	AuditActionRejectProduct     AuditAction = "REJECT_PRODUCT"
	AuditActionRemoveProduct     AuditAction = "REMOVE_PRODUCT"
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	AuditActionUpdateUserStatus  AuditAction = "UPDATE_USER_STATUS"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceProduct AuditResourceType = "product"
	AuditResourceOrder   AuditResourceType = "order"
	AuditResourceUser    AuditResourceType = "user"
)

// 監査ログ（管理者操作ログ）。
// 「誰が」「何を」「どの対象に」「どう変えたか」を残す。
type AuditLog struct {
	ID           string            `json:"id"`
	Actor        string            `json:"actor"`
	Action       AuditAction       `json:"action"`
	ResourceType AuditResourceType `json:"resource_type"`
	ResourceID   string            `json:"resource_id"`
	BeforeJSON   string            `json:"before_json"`
	AfterJSON    string            `json:"after_json"`
	CreatedAt    time.Time         `json:"created_at"`
}
