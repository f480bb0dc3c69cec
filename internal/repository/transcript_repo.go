package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-portal/backend/internal/model"
)

// TranscriptRepository 成绩单数据访问接口
type TranscriptRepository interface {
	GetTerm(ctx context.Context, studentID, term string) (*model.TranscriptTerm, error)
	ListCourses(ctx context.Context, studentID, term string) ([]model.TranscriptCourse, error)
	// ListCoursesUpdatedSince 仅返回 updated_at 严格大于 since 的科目
	ListCoursesUpdatedSince(ctx context.Context, studentID, term string, since time.Time) ([]model.TranscriptCourse, error)
}

type transcriptRepo struct {
	db *gorm.DB
}

// NewTranscriptRepo 创建 TranscriptRepository 实例
func NewTranscriptRepo(db *gorm.DB) TranscriptRepository {
	return &transcriptRepo{db: db}
}

func (r *transcriptRepo) GetTerm(ctx context.Context, studentID, term string) (*model.TranscriptTerm, error) {
	var t model.TranscriptTerm
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND term = ?", studentID, term).
		First(&t).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *transcriptRepo) ListCourses(ctx context.Context, studentID, term string) ([]model.TranscriptCourse, error) {
	var courses []model.TranscriptCourse
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND term = ?", studentID, term).
		Order("course_id ASC").
		Find(&courses).Error
	return courses, err
}

func (r *transcriptRepo) ListCoursesUpdatedSince(ctx context.Context, studentID, term string, since time.Time) ([]model.TranscriptCourse, error) {
	var courses []model.TranscriptCourse
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND term = ? AND updated_at > ?", studentID, term, since).
		Order("course_id ASC").
		Find(&courses).Error
	return courses, err
}
