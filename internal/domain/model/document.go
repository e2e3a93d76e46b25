package model

import "time"

// key ごとに JSON ドキュメントを1つ保存するテーブル
type Document struct {
	Key       string    `gorm:"type:varchar(255);primaryKey" bson:"_id"`
	Body      string    `gorm:"type:text;not null" bson:"body"`
	UpdatedAt time.Time `gorm:"not null" bson:"updated_at"`
}

// 保存キー
const (
	KeyProducts   = "products"
	KeyOrders     = "orders"
	KeyUsers      = "users"
	KeyCategories = "categories"
	KeyAuditLogs  = "audit_logs"
)

func CartKey(sessionID string) string {
	return "cart:" + sessionID
}
