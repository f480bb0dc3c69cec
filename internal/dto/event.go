package dto

import (
	"time"

	"campus-portal/backend/internal/model"
)

// EventResponse 行事历事件（对外 camelCase）
type EventResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Date      time.Time `json:"date"`
	Title     string    `json:"title"`
	CourseID  *string   `json:"courseId,omitempty"`
	Location  string    `json:"location"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewEventResponse 模型 → 客户端负载
func NewEventResponse(e *model.Event) EventResponse {
	return EventResponse{
		ID:        e.EventID,
		Type:      e.Type,
		Date:      e.Date,
		Title:     e.Title,
		CourseID:  e.CourseID,
		Location:  e.Location,
		UpdatedAt: e.UpdatedAt,
	}
}

// EventsResponse 行事历增量响应
type EventsResponse struct {
	Items []EventResponse `json:"items"`
	Since *string         `json:"since"`
}
