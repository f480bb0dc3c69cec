package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/repository"
)

var ErrTermRequired = errors.New("term 参数不能为空")

// ScheduleService 课表业务接口
type ScheduleService interface {
	// GetSchedule 查询某学期课表
	//
	// since 非 nil 时仅返回 updated_at 严格大于 since 的条目；
	// 响应 UpdatedAt 始终为集合水位线（全量最大 updated_at），
	// 增量为空时保持原水位线，不回退。
	GetSchedule(ctx context.Context, term string, since *time.Time) (*dto.ScheduleResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, logger: logger}
}

func (s *scheduleService) GetSchedule(ctx context.Context, term string, since *time.Time) (*dto.ScheduleResponse, error) {
	if term == "" {
		return nil, ErrTermRequired
	}

	entries, err := func() ([]dto.ScheduleEntryResponse, error) {
		if since == nil {
			rows, err := s.repo.Schedule.ListByTerm(ctx, term)
			if err != nil {
				return nil, err
			}
			out := make([]dto.ScheduleEntryResponse, 0, len(rows))
			for i := range rows {
				out = append(out, dto.NewScheduleEntryResponse(&rows[i]))
			}
			return out, nil
		}
		rows, err := s.repo.Schedule.ListUpdatedSince(ctx, term, *since)
		if err != nil {
			return nil, err
		}
		out := make([]dto.ScheduleEntryResponse, 0, len(rows))
		for i := range rows {
			out = append(out, dto.NewScheduleEntryResponse(&rows[i]))
		}
		return out, nil
	}()
	if err != nil {
		s.logger.Error("查询课表失败", zap.String("term", term), zap.Error(err))
		return nil, err
	}

	watermark, err := s.repo.Schedule.MaxUpdatedAt(ctx, term)
	if err != nil {
		s.logger.Error("查询课表水位线失败", zap.String("term", term), zap.Error(err))
		return nil, err
	}

	return &dto.ScheduleResponse{
		Term:      term,
		UpdatedAt: watermark,
		Entries:   entries,
	}, nil
}
