package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/repository"
)

var ErrInvalidEventRange = errors.New("range 参数格式错误，应为 YYYY-MM-DD..YYYY-MM-DD")

// EventQuery 行事历查询参数
//
// Range 与 Term 二选一；Term 目前仅支持 "current"。
type EventQuery struct {
	Range string
	Term  string
	Since *time.Time
}

// EventService 行事历业务接口
type EventService interface {
	ListEvents(ctx context.Context, q EventQuery) (*dto.EventsResponse, error)
}

type eventService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewEventService 创建 EventService 实例
func NewEventService(repo *repository.Repository, logger *zap.Logger) EventService {
	return &eventService{repo: repo, logger: logger, now: time.Now}
}

func (s *eventService) ListEvents(ctx context.Context, q EventQuery) (*dto.EventsResponse, error) {
	filter := repository.EventFilter{Since: q.Since}

	switch {
	case q.Range != "":
		start, end, err := parseDateRange(q.Range)
		if err != nil {
			return nil, err
		}
		filter.Start, filter.End = &start, &end
	case q.Term == "current":
		start, end := currentTermWindow(s.now())
		filter.Start, filter.End = &start, &end
	}

	rows, err := s.repo.Event.List(ctx, filter)
	if err != nil {
		s.logger.Error("查询行事历失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.EventResponse, 0, len(rows))
	for i := range rows {
		items = append(items, dto.NewEventResponse(&rows[i]))
	}

	var echo *string
	if q.Since != nil {
		v := q.Since.UTC().Format(time.RFC3339)
		echo = &v
	}

	return &dto.EventsResponse{Items: items, Since: echo}, nil
}

// parseDateRange 解析 "YYYY-MM-DD..YYYY-MM-DD" 闭区间
func parseDateRange(raw string) (time.Time, time.Time, error) {
	parts := strings.SplitN(raw, "..", 2)
	if len(parts) != 2 {
		return time.Time{}, time.Time{}, ErrInvalidEventRange
	}
	start, err := time.Parse("2006-01-02", parts[0])
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidEventRange
	}
	end, err := time.Parse("2006-01-02", parts[1])
	if err != nil {
		return time.Time{}, time.Time{}, ErrInvalidEventRange
	}
	if end.Before(start) {
		return time.Time{}, time.Time{}, ErrInvalidEventRange
	}
	return start, end, nil
}

// currentTermWindow 按当前日期推算学期区间
//
// 上学期 9/1 ~ 次年 1/31，下学期 2/1 ~ 7/31，8 月视为上学期开始前的准备期。
func currentTermWindow(now time.Time) (time.Time, time.Time) {
	y, m := now.Year(), now.Month()
	switch {
	case m >= time.August:
		return date(y, time.September, 1), date(y+1, time.January, 31)
	case m == time.January:
		return date(y-1, time.September, 1), date(y, time.January, 31)
	default:
		return date(y, time.February, 1), date(y, time.July, 31)
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
