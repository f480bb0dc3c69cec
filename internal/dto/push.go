package dto

// SubscriptionKeys Web Push 订阅密钥对
type SubscriptionKeys struct {
	P256dh string `json:"p256dh"`
	Auth   string `json:"auth"`
}

// PushSubscriptionPayload 浏览器 PushSubscription.toJSON() 结构
type PushSubscriptionPayload struct {
	Endpoint string           `json:"endpoint"`
	Keys     SubscriptionKeys `json:"keys"`
}

// SubscribeRequest 保存订阅请求
// 同时兼容裸订阅对象与 {subscription: {...}} 包裹格式
type SubscribeRequest struct {
	Subscription *PushSubscriptionPayload `json:"subscription,omitempty"`
	Endpoint     string                   `json:"endpoint,omitempty"`
	Keys         *SubscriptionKeys        `json:"keys,omitempty"`
}

// Normalize 归一化为裸订阅对象；非法时返回 nil
func (r *SubscribeRequest) Normalize() *PushSubscriptionPayload {
	sub := r.Subscription
	if sub == nil {
		if r.Endpoint == "" || r.Keys == nil {
			return nil
		}
		sub = &PushSubscriptionPayload{Endpoint: r.Endpoint, Keys: *r.Keys}
	}
	if sub.Endpoint == "" || sub.Keys.P256dh == "" || sub.Keys.Auth == "" {
		return nil
	}
	return sub
}

// UnsubscribeRequest 取消订阅请求
type UnsubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required"`
}

// PushMessageRequest 推送消息请求
type PushMessageRequest struct {
	Title  string `json:"title" binding:"required"`
	Body   string `json:"body" binding:"required"`
	UserID string `json:"userId,omitempty"` // send-user 必填
}

// VAPIDKeyResponse VAPID 公钥响应
type VAPIDKeyResponse struct {
	PublicKey string `json:"publicKey"`
}

// PushSendResult 推送结果统计
type PushSendResult struct {
	Sent    int `json:"sent"`
	Failed  int `json:"failed"`
	Removed int `json:"removed"` // 因 404/410 被清除的失效订阅数
}

// PushStatsResponse 订阅统计
type PushStatsResponse struct {
	Total    int64 `json:"total"`
	WithUser int64 `json:"withUser"`
}
