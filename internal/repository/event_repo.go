package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-portal/backend/internal/model"
)

// EventFilter 行事历查询条件，nil 字段表示不过滤
type EventFilter struct {
	Start *time.Time // 事件日期下界（含）
	End   *time.Time // 事件日期上界（含）
	Since *time.Time // 增量过滤：updated_at 严格大于
}

// EventRepository 行事历数据访问接口
type EventRepository interface {
	List(ctx context.Context, filter EventFilter) ([]model.Event, error)
}

type eventRepo struct {
	db *gorm.DB
}

// NewEventRepo 创建 EventRepository 实例
func NewEventRepo(db *gorm.DB) EventRepository {
	return &eventRepo{db: db}
}

func (r *eventRepo) List(ctx context.Context, filter EventFilter) ([]model.Event, error) {
	q := r.db.WithContext(ctx).Model(&model.Event{})
	if filter.Start != nil {
		q = q.Where("date >= ?", *filter.Start)
	}
	if filter.End != nil {
		q = q.Where("date <= ?", *filter.End)
	}
	if filter.Since != nil {
		q = q.Where("updated_at > ?", *filter.Since)
	}

	var items []model.Event
	err := q.Order("date ASC").Find(&items).Error
	return items, err
}
