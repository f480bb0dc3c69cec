package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-portal/backend/internal/model"
)

// AnnouncementRepository 公告数据访问接口
type AnnouncementRepository interface {
	GetByID(ctx context.Context, id string) (*model.Announcement, error)
	List(ctx context.Context) ([]model.Announcement, error)
	ListUpdatedSince(ctx context.Context, since time.Time) ([]model.Announcement, error)
}

type announcementRepo struct {
	db *gorm.DB
}

// NewAnnouncementRepo 创建 AnnouncementRepository 实例
func NewAnnouncementRepo(db *gorm.DB) AnnouncementRepository {
	return &announcementRepo{db: db}
}

func (r *announcementRepo) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	var a model.Announcement
	err := r.db.WithContext(ctx).
		Where("announcement_id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *announcementRepo) List(ctx context.Context) ([]model.Announcement, error) {
	var items []model.Announcement
	err := r.db.WithContext(ctx).
		Order("published_at DESC").
		Find(&items).Error
	return items, err
}

func (r *announcementRepo) ListUpdatedSince(ctx context.Context, since time.Time) ([]model.Announcement, error) {
	var items []model.Announcement
	err := r.db.WithContext(ctx).
		Where("updated_at > ?", since).
		Order("published_at DESC").
		Find(&items).Error
	return items, err
}
