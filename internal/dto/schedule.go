package dto

import (
	"time"

	"campus-portal/backend/internal/model"
)

// ScheduleEntryResponse 课表条目（对外 camelCase）
type ScheduleEntryResponse struct {
	Weekday   int       `json:"weekday"`
	Period    int       `json:"period"`
	CourseID  string    `json:"courseId"`
	Room      string    `json:"room"`
	Teacher   string    `json:"teacher"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewScheduleEntryResponse 模型 → 客户端负载
func NewScheduleEntryResponse(e *model.ScheduleEntry) ScheduleEntryResponse {
	return ScheduleEntryResponse{
		Weekday:   e.Weekday,
		Period:    e.Period,
		CourseID:  e.CourseID,
		Room:      e.Room,
		Teacher:   e.Teacher,
		UpdatedAt: e.UpdatedAt,
	}
}

// ScheduleResponse 课表增量响应
// Entries 为空时 UpdatedAt 保持集合原水位线不回退
type ScheduleResponse struct {
	Term      string                  `json:"term"`
	UpdatedAt time.Time               `json:"updatedAt"`
	Entries   []ScheduleEntryResponse `json:"entries"`
}
