package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/response"
)

// idempotencyKeyHeader 写操作幂等键请求头
const idempotencyKeyHeader = "Idempotency-Key"

// LeaveHandler 请假模块 HTTP 处理器
type LeaveHandler struct {
	leaveSvc service.LeaveService
	idemSvc  service.IdempotencyService
}

// NewLeaveHandler 创建 LeaveHandler
func NewLeaveHandler(leaveSvc service.LeaveService, idemSvc service.IdempotencyService) *LeaveHandler {
	return &LeaveHandler{leaveSvc: leaveSvc, idemSvc: idemSvc}
}

// Create 提交请假单
// POST /api/v1/leave-requests
//
// 携带 Idempotency-Key 的重复请求按首次响应快照原样重放，
// 只产生一次副作用。
func (h *LeaveHandler) Create(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	idemKey := c.GetHeader(idempotencyKeyHeader)
	if idemKey != "" {
		stored, err := h.idemSvc.Lookup(c.Request.Context(), idemKey)
		if err == nil && stored != nil {
			c.Data(stored.StatusCode, "application/json; charset=utf-8", stored.Payload)
			return
		}
	}

	var req dto.CreateLeaveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	item, err := h.leaveSvc.Create(c.Request.Context(), userID, studentID, &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	env := response.Envelope{
		Success:   true,
		Message:   "请假单创建成功",
		Data:      dto.LeaveItemResponse{Item: item},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	c.JSON(http.StatusCreated, env)

	// 仅缓存成功创建的快照
	if idemKey != "" {
		h.idemSvc.Store(c.Request.Context(), idemKey, http.StatusCreated, env)
	}
}

// ListMine 查询我的请假单
// GET /api/v1/leave-requests?mine=1
func (h *LeaveHandler) ListMine(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	result, err := h.leaveSvc.ListMine(c.Request.Context(), userID)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, "查询成功", result)
}

// Decide 审批请假单（仅教师 / 管理员）
// POST /api/v1/leave-requests/:id/decision
func (h *LeaveHandler) Decide(c *gin.Context) {
	var req dto.LeaveDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	item, err := h.leaveSvc.Decide(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleLeaveError(c, err)
		return
	}

	response.OK(c, "审批完成", dto.LeaveItemResponse{Item: item})
}

// handleLeaveError 请假模块错误映射
func (h *LeaveHandler) handleLeaveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrLeaveNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, service.ErrReasonRequired),
		errors.Is(err, service.ErrInvalidDecision):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrLeaveAlreadyFinal):
		response.Error(c, http.StatusConflict, err.Error())
	default:
		response.InternalError(c)
	}
}
