package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-portal/backend/internal/model"
)

// ScheduleRepository 课表数据访问接口
type ScheduleRepository interface {
	ListByTerm(ctx context.Context, term string) ([]model.ScheduleEntry, error)
	// ListUpdatedSince 仅返回 updated_at 严格大于 since 的条目
	ListUpdatedSince(ctx context.Context, term string, since time.Time) ([]model.ScheduleEntry, error)
	// MaxUpdatedAt 集合当前水位线；无数据时返回零值
	MaxUpdatedAt(ctx context.Context, term string) (time.Time, error)
}

type scheduleRepo struct {
	db *gorm.DB
}

// NewScheduleRepo 创建 ScheduleRepository 实例
func NewScheduleRepo(db *gorm.DB) ScheduleRepository {
	return &scheduleRepo{db: db}
}

func (r *scheduleRepo) ListByTerm(ctx context.Context, term string) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("term = ?", term).
		Order("weekday ASC, period ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleRepo) ListUpdatedSince(ctx context.Context, term string, since time.Time) ([]model.ScheduleEntry, error) {
	var entries []model.ScheduleEntry
	err := r.db.WithContext(ctx).
		Where("term = ? AND updated_at > ?", term, since).
		Order("weekday ASC, period ASC").
		Find(&entries).Error
	return entries, err
}

func (r *scheduleRepo) MaxUpdatedAt(ctx context.Context, term string) (time.Time, error) {
	var ts *time.Time
	err := r.db.WithContext(ctx).
		Model(&model.ScheduleEntry{}).
		Where("term = ?", term).
		Select("MAX(updated_at)").
		Scan(&ts).Error
	if err != nil || ts == nil {
		return time.Time{}, err
	}
	return *ts, nil
}
