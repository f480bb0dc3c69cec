package dto

import (
	"time"

	"campus-portal/backend/internal/model"
)

// TranscriptCourseResponse 单科成绩（对外 camelCase）
type TranscriptCourseResponse struct {
	CourseID  string    `json:"courseId"`
	Name      string    `json:"name"`
	Credit    int       `json:"credit"`
	Score     int       `json:"score"`
	Grade     string    `json:"grade"`
	Rank      *int      `json:"rank,omitempty"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// NewTranscriptCourseResponse 模型 → 客户端负载
func NewTranscriptCourseResponse(c *model.TranscriptCourse) TranscriptCourseResponse {
	return TranscriptCourseResponse{
		CourseID:  c.CourseID,
		Name:      c.Name,
		Credit:    c.Credit,
		Score:     c.Score,
		Grade:     c.Grade,
		Rank:      c.Rank,
		UpdatedAt: c.UpdatedAt,
	}
}

// TranscriptTermResponse 一个学期的成绩单
type TranscriptTermResponse struct {
	Term      string                     `json:"term"`
	GPA       float64                    `json:"gpa"`
	UpdatedAt time.Time                  `json:"updatedAt"`
	Courses   []TranscriptCourseResponse `json:"courses"`
}

// TranscriptsResponse 成绩单增量响应
type TranscriptsResponse struct {
	Items []TranscriptTermResponse `json:"items"`
	Since *string                  `json:"since"`
}
