package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
)

var (
	ErrLeaveNotFound     = errors.New("请假单不存在")
	ErrInvalidDateRange  = errors.New("请假日期区间无效")
	ErrReasonRequired    = errors.New("请假事由不能为空")
	ErrInvalidDecision   = errors.New("decision 仅支持 approved 或 rejected")
	ErrLeaveAlreadyFinal = errors.New("请假单已审批，不可重复操作")
)

// LeaveService 请假业务接口
type LeaveService interface {
	// Create 创建请假单，初始状态 pending
	Create(ctx context.Context, userID, studentID string, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error)
	ListMine(ctx context.Context, userID string) (*dto.LeaveListResponse, error)
	// Decide 审批请假单；仅 pending 状态可审批
	Decide(ctx context.Context, requestID string, req *dto.LeaveDecisionRequest) (*dto.LeaveRequestResponse, error)
}

type leaveService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewLeaveService 创建 LeaveService 实例
func NewLeaveService(repo *repository.Repository, logger *zap.Logger) LeaveService {
	return &leaveService{repo: repo, logger: logger}
}

func (s *leaveService) Create(ctx context.Context, userID, studentID string, req *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error) {
	if req.DateRange == nil || req.DateRange.Start.IsZero() || req.DateRange.End.IsZero() {
		return nil, ErrInvalidDateRange
	}
	if req.DateRange.End.Before(req.DateRange.Start) {
		return nil, ErrInvalidDateRange
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, ErrReasonRequired
	}

	atts := make(model.AttachmentList, 0, len(req.Attachments))
	for _, a := range req.Attachments {
		atts = append(atts, model.Attachment{Key: a.Key, Name: a.Name})
	}

	leave := &model.LeaveRequest{
		RequestID:   uuid.New().String(),
		UserID:      userID,
		StudentID:   studentID,
		StartDate:   req.DateRange.Start,
		EndDate:     req.DateRange.End,
		Reason:      req.Reason,
		Attachments: atts,
		Status:      model.LeaveStatusPending,
	}
	if err := s.repo.Leave.Create(ctx, leave); err != nil {
		s.logger.Error("创建请假单失败", zap.Error(err))
		return nil, err
	}

	return dto.NewLeaveRequestResponse(leave), nil
}

func (s *leaveService) ListMine(ctx context.Context, userID string) (*dto.LeaveListResponse, error) {
	rows, err := s.repo.Leave.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询请假单失败", zap.Error(err))
		return nil, err
	}

	items := make([]dto.LeaveRequestResponse, 0, len(rows))
	for i := range rows {
		items = append(items, *dto.NewLeaveRequestResponse(&rows[i]))
	}
	return &dto.LeaveListResponse{Items: items}, nil
}

func (s *leaveService) Decide(ctx context.Context, requestID string, req *dto.LeaveDecisionRequest) (*dto.LeaveRequestResponse, error) {
	if req.Decision != model.LeaveStatusApproved && req.Decision != model.LeaveStatusRejected {
		return nil, ErrInvalidDecision
	}

	leave, err := s.repo.Leave.GetByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeaveNotFound
		}
		s.logger.Error("查询请假单失败", zap.Error(err))
		return nil, err
	}

	if leave.Status != model.LeaveStatusPending {
		return nil, ErrLeaveAlreadyFinal
	}

	leave.Status = req.Decision
	leave.Note = req.Note
	if err := s.repo.Leave.Update(ctx, leave); err != nil {
		s.logger.Error("更新请假单失败", zap.Error(err))
		return nil, err
	}

	return dto.NewLeaveRequestResponse(leave), nil
}
