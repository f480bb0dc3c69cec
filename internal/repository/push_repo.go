package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-portal/backend/internal/model"
)

// PushSubscriptionRepository Web Push 订阅数据访问接口
type PushSubscriptionRepository interface {
	// Upsert 按 endpoint 幂等保存订阅
	Upsert(ctx context.Context, sub *model.PushSubscription) error
	DeleteByEndpoint(ctx context.Context, endpoint string) error
	ListAll(ctx context.Context) ([]model.PushSubscription, error)
	ListByUser(ctx context.Context, userID string) ([]model.PushSubscription, error)
	Count(ctx context.Context) (total, withUser int64, err error)
}

type pushSubscriptionRepo struct {
	db *gorm.DB
}

// NewPushSubscriptionRepo 创建 PushSubscriptionRepository 实例
func NewPushSubscriptionRepo(db *gorm.DB) PushSubscriptionRepository {
	return &pushSubscriptionRepo{db: db}
}

func (r *pushSubscriptionRepo) Upsert(ctx context.Context, sub *model.PushSubscription) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "endpoint"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"user_id", "p256dh", "auth", "user_agent", "updated_at",
			}),
		}).
		Create(sub).Error
}

func (r *pushSubscriptionRepo) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	return r.db.WithContext(ctx).
		Where("endpoint = ?", endpoint).
		Delete(&model.PushSubscription{}).Error
}

func (r *pushSubscriptionRepo) ListAll(ctx context.Context) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := r.db.WithContext(ctx).Find(&subs).Error
	return subs, err
}

func (r *pushSubscriptionRepo) ListByUser(ctx context.Context, userID string) ([]model.PushSubscription, error) {
	var subs []model.PushSubscription
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&subs).Error
	return subs, err
}

func (r *pushSubscriptionRepo) Count(ctx context.Context) (int64, int64, error) {
	var total, withUser int64
	if err := r.db.WithContext(ctx).Model(&model.PushSubscription{}).Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := r.db.WithContext(ctx).Model(&model.PushSubscription{}).
		Where("user_id IS NOT NULL").Count(&withUser).Error; err != nil {
		return 0, 0, err
	}
	return total, withUser, nil
}
