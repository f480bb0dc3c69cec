package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
)

func newLeaveSvc() (LeaveService, *mockLeaveRepo) {
	mock := &mockLeaveRepo{}
	repo := repoWith(func(r *repository.Repository) { r.Leave = mock })
	return NewLeaveService(repo, zap.NewNop()), mock
}

func validLeaveReq() *dto.CreateLeaveRequest {
	return &dto.CreateLeaveRequest{
		DateRange: &dto.DateRange{
			Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
			End:   time.Date(2025, 9, 3, 0, 0, 0, 0, time.UTC),
		},
		Reason: "家中有事",
	}
}

func TestLeave_Create(t *testing.T) {
	svc, mock := newLeaveSvc()

	item, err := svc.Create(context.Background(), "u-1", "S2025001", validLeaveReq())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}
	if item.Status != model.LeaveStatusPending {
		t.Fatalf("新建请假单应为 pending, got %s", item.Status)
	}
	if item.ID == "" {
		t.Fatal("应分配请假单 ID")
	}
	if len(mock.created) != 1 {
		t.Fatalf("应只落库一次, got %d", len(mock.created))
	}
}

func TestLeave_CreateValidation(t *testing.T) {
	svc, _ := newLeaveSvc()
	ctx := context.Background()

	if _, err := svc.Create(ctx, "u-1", "S2025001", &dto.CreateLeaveRequest{Reason: "x"}); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("缺日期区间应返回 ErrInvalidDateRange, got %v", err)
	}

	req := validLeaveReq()
	req.DateRange.Start, req.DateRange.End = req.DateRange.End, req.DateRange.Start
	if _, err := svc.Create(ctx, "u-1", "S2025001", req); !errors.Is(err, ErrInvalidDateRange) {
		t.Fatalf("起止倒置应返回 ErrInvalidDateRange, got %v", err)
	}

	req = validLeaveReq()
	req.Reason = "   "
	if _, err := svc.Create(ctx, "u-1", "S2025001", req); !errors.Is(err, ErrReasonRequired) {
		t.Fatalf("空事由应返回 ErrReasonRequired, got %v", err)
	}
}

func TestLeave_Decide(t *testing.T) {
	svc, _ := newLeaveSvc()
	ctx := context.Background()

	item, err := svc.Create(ctx, "u-1", "S2025001", validLeaveReq())
	if err != nil {
		t.Fatalf("Create 应成功: %v", err)
	}

	note := "情况属实"
	decided, err := svc.Decide(ctx, item.ID, &dto.LeaveDecisionRequest{Decision: "approved", Note: &note})
	if err != nil {
		t.Fatalf("Decide 应成功: %v", err)
	}
	if decided.Status != model.LeaveStatusApproved {
		t.Fatalf("审批后应为 approved, got %s", decided.Status)
	}
	if decided.Note == nil || *decided.Note != note {
		t.Fatalf("审批备注应保留, got %v", decided.Note)
	}

	// 已审批的单不可重复操作
	if _, err := svc.Decide(ctx, item.ID, &dto.LeaveDecisionRequest{Decision: "rejected"}); !errors.Is(err, ErrLeaveAlreadyFinal) {
		t.Fatalf("重复审批应返回 ErrLeaveAlreadyFinal, got %v", err)
	}
}

func TestLeave_DecideValidation(t *testing.T) {
	svc, _ := newLeaveSvc()
	ctx := context.Background()

	if _, err := svc.Decide(ctx, "nope", &dto.LeaveDecisionRequest{Decision: "approved"}); !errors.Is(err, ErrLeaveNotFound) {
		t.Fatalf("未知单号应返回 ErrLeaveNotFound, got %v", err)
	}
	if _, err := svc.Decide(ctx, "any", &dto.LeaveDecisionRequest{Decision: "maybe"}); !errors.Is(err, ErrInvalidDecision) {
		t.Fatalf("非法 decision 应返回 ErrInvalidDecision, got %v", err)
	}
}
