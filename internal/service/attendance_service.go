package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
)

// AttendanceService 考勤业务接口
type AttendanceService interface {
	// GetAttendance 查询某学期考勤；since 非 nil 时仅返回增量
	GetAttendance(ctx context.Context, studentID, term string, since *time.Time) (*dto.AttendanceResponse, error)
}

type attendanceService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewAttendanceService 创建 AttendanceService 实例
func NewAttendanceService(repo *repository.Repository, logger *zap.Logger) AttendanceService {
	return &attendanceService{repo: repo, logger: logger}
}

func (s *attendanceService) GetAttendance(ctx context.Context, studentID, term string, since *time.Time) (*dto.AttendanceResponse, error) {
	if term == "" {
		return nil, ErrTermRequired
	}

	var (
		records []model.AttendanceRecord
		err     error
	)
	if since == nil {
		records, err = s.repo.Attendance.ListByTerm(ctx, studentID, term)
	} else {
		records, err = s.repo.Attendance.ListUpdatedSince(ctx, studentID, term, *since)
	}
	if err != nil {
		s.logger.Error("查询考勤失败", zap.String("term", term), zap.Error(err))
		return nil, err
	}

	items := make([]dto.AttendanceRecordResponse, 0, len(records))
	for i := range records {
		items = append(items, dto.NewAttendanceRecordResponse(&records[i]))
	}

	var echo *string
	if since != nil {
		v := since.UTC().Format(time.RFC3339)
		echo = &v
	}

	return &dto.AttendanceResponse{Term: term, Items: items, Since: echo}, nil
}
