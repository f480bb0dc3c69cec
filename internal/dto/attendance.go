package dto

import (
	"time"

	"campus-portal/backend/internal/model"
)

// AttendanceRecordResponse 考勤记录（对外 camelCase）
type AttendanceRecordResponse struct {
	ID        string    `json:"id"`
	StudentID string    `json:"studentId"`
	Date      time.Time `json:"date"`
	CourseID  string    `json:"courseId"`
	Status    string    `json:"status"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewAttendanceRecordResponse 模型 → 客户端负载
func NewAttendanceRecordResponse(r *model.AttendanceRecord) AttendanceRecordResponse {
	return AttendanceRecordResponse{
		ID:        r.RecordID,
		StudentID: r.StudentID,
		Date:      r.Date,
		CourseID:  r.CourseID,
		Status:    r.Status,
		UpdatedAt: r.UpdatedAt,
	}
}

// AttendanceResponse 考勤增量响应
type AttendanceResponse struct {
	Term  string                     `json:"term"`
	Items []AttendanceRecordResponse `json:"items"`
	Since *string                    `json:"since"`
}
