package dto

import "time"

// AttachmentResponse 公告附件（含短效签名 URL）
type AttachmentResponse struct {
	Key       string    `json:"key"`
	Name      string    `json:"name"`
	SignedURL string    `json:"signedUrl"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// AnnouncementResponse 公告（对外 camelCase）
type AnnouncementResponse struct {
	ID          string               `json:"id"`
	Title       string               `json:"title"`
	Body        string               `json:"body"`
	Attachments []AttachmentResponse `json:"attachments"`
	PublishedAt time.Time            `json:"publishedAt"`
	UpdatedAt   time.Time            `json:"updatedAt"`
}

// AnnouncementsResponse 公告增量响应
type AnnouncementsResponse struct {
	Items []AnnouncementResponse `json:"items"`
	Since *string                `json:"since"`
}

// ReadReceiptResponse 公告已读标记结果
// 重复标记不是错误：Duplicated=true 且 ReadAt 为首次时间
type ReadReceiptResponse struct {
	ID         string    `json:"id"`
	ReadAt     time.Time `json:"readAt"`
	Duplicated bool      `json:"duplicated"`
}
