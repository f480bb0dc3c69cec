package repository

import (
	"context"

	"gorm.io/gorm"

	"campus-portal/backend/internal/model"
)

// LeaveRequestRepository 请假单数据访问接口
type LeaveRequestRepository interface {
	Create(ctx context.Context, req *model.LeaveRequest) error
	GetByID(ctx context.Context, id string) (*model.LeaveRequest, error)
	ListByUser(ctx context.Context, userID string) ([]model.LeaveRequest, error)
	Update(ctx context.Context, req *model.LeaveRequest) error
}

type leaveRequestRepo struct {
	db *gorm.DB
}

// NewLeaveRequestRepo 创建 LeaveRequestRepository 实例
func NewLeaveRequestRepo(db *gorm.DB) LeaveRequestRepository {
	return &leaveRequestRepo{db: db}
}

func (r *leaveRequestRepo) Create(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Create(req).Error
}

func (r *leaveRequestRepo) GetByID(ctx context.Context, id string) (*model.LeaveRequest, error) {
	var req model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("request_id = ?", id).
		First(&req).Error
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *leaveRequestRepo) ListByUser(ctx context.Context, userID string) ([]model.LeaveRequest, error) {
	var items []model.LeaveRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Find(&items).Error
	return items, err
}

func (r *leaveRequestRepo) Update(ctx context.Context, req *model.LeaveRequest) error {
	return r.db.WithContext(ctx).Save(req).Error
}
