package dto

import (
	"time"

	"campus-portal/backend/internal/model"
)

// DateRange 请假日期区间
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// LeaveAttachment 请假附件
type LeaveAttachment struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// CreateLeaveRequest 创建请假单请求
// 幂等键经 Idempotency-Key 请求头传递，不在 body 中
type CreateLeaveRequest struct {
	DateRange   *DateRange        `json:"dateRange"`
	Reason      string            `json:"reason"`
	Attachments []LeaveAttachment `json:"attachments"`
}

// LeaveRequestResponse 请假单（对外 camelCase）
type LeaveRequestResponse struct {
	ID          string            `json:"id"`
	UserID      string            `json:"userId"`
	StudentID   string            `json:"studentId"`
	DateRange   DateRange         `json:"dateRange"`
	Reason      string            `json:"reason"`
	Attachments []LeaveAttachment `json:"attachments"`
	Status      string            `json:"status"`
	Note        *string           `json:"note,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// NewLeaveRequestResponse 模型 → 客户端负载
func NewLeaveRequestResponse(r *model.LeaveRequest) *LeaveRequestResponse {
	atts := make([]LeaveAttachment, 0, len(r.Attachments))
	for _, a := range r.Attachments {
		atts = append(atts, LeaveAttachment{Key: a.Key, Name: a.Name})
	}
	return &LeaveRequestResponse{
		ID:        r.RequestID,
		UserID:    r.UserID,
		StudentID: r.StudentID,
		DateRange: DateRange{
			Start: r.StartDate,
			End:   r.EndDate,
		},
		Reason:      r.Reason,
		Attachments: atts,
		Status:      r.Status,
		Note:        r.Note,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// LeaveItemResponse 单个请假单响应体
type LeaveItemResponse struct {
	Item *LeaveRequestResponse `json:"item"`
}

// LeaveListResponse 请假单列表响应体
type LeaveListResponse struct {
	Items []LeaveRequestResponse `json:"items"`
}

// LeaveDecisionRequest 审批请求
type LeaveDecisionRequest struct {
	Decision string  `json:"decision" binding:"required"` // approved | rejected
	Note     *string `json:"note,omitempty"`
}
