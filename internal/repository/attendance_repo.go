package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-portal/backend/internal/model"
)

// AttendanceRepository 考勤数据访问接口
type AttendanceRepository interface {
	ListByTerm(ctx context.Context, studentID, term string) ([]model.AttendanceRecord, error)
	ListUpdatedSince(ctx context.Context, studentID, term string, since time.Time) ([]model.AttendanceRecord, error)
}

type attendanceRepo struct {
	db *gorm.DB
}

// NewAttendanceRepo 创建 AttendanceRepository 实例
func NewAttendanceRepo(db *gorm.DB) AttendanceRepository {
	return &attendanceRepo{db: db}
}

func (r *attendanceRepo) ListByTerm(ctx context.Context, studentID, term string) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND term = ?", studentID, term).
		Order("date ASC").
		Find(&records).Error
	return records, err
}

func (r *attendanceRepo) ListUpdatedSince(ctx context.Context, studentID, term string, since time.Time) ([]model.AttendanceRecord, error) {
	var records []model.AttendanceRecord
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND term = ? AND updated_at > ?", studentID, term, since).
		Order("date ASC").
		Find(&records).Error
	return records, err
}
