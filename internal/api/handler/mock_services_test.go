package handler

import (
	"context"
	"time"

	"campus-portal/backend/internal/dto"
)

// ── 手写 Mock Service，供 Handler 单测使用 ──

type mockScheduleService struct {
	gotTerm  string
	gotSince *time.Time
	resp     *dto.ScheduleResponse
	err      error
}

func (m *mockScheduleService) GetSchedule(_ context.Context, term string, since *time.Time) (*dto.ScheduleResponse, error) {
	m.gotTerm = term
	m.gotSince = since
	if m.err != nil {
		return nil, m.err
	}
	if m.resp != nil {
		return m.resp, nil
	}
	return &dto.ScheduleResponse{Term: term, Entries: []dto.ScheduleEntryResponse{}}, nil
}

type mockLeaveService struct {
	createCalls int
	item        *dto.LeaveRequestResponse
	err         error
}

func (m *mockLeaveService) Create(_ context.Context, userID, studentID string, _ *dto.CreateLeaveRequest) (*dto.LeaveRequestResponse, error) {
	m.createCalls++
	if m.err != nil {
		return nil, m.err
	}
	if m.item != nil {
		return m.item, nil
	}
	return &dto.LeaveRequestResponse{
		ID:        "req-1",
		UserID:    userID,
		StudentID: studentID,
		Status:    "pending",
	}, nil
}

func (m *mockLeaveService) ListMine(_ context.Context, userID string) (*dto.LeaveListResponse, error) {
	return &dto.LeaveListResponse{Items: []dto.LeaveRequestResponse{}}, nil
}

func (m *mockLeaveService) Decide(_ context.Context, requestID string, req *dto.LeaveDecisionRequest) (*dto.LeaveRequestResponse, error) {
	return &dto.LeaveRequestResponse{ID: requestID, Status: req.Decision}, nil
}
