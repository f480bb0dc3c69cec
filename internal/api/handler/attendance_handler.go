package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/response"
)

// AttendanceHandler 考勤模块 HTTP 处理器
type AttendanceHandler struct {
	attendanceSvc service.AttendanceService
}

// NewAttendanceHandler 创建 AttendanceHandler
func NewAttendanceHandler(attendanceSvc service.AttendanceService) *AttendanceHandler {
	return &AttendanceHandler{attendanceSvc: attendanceSvc}
}

// GetAttendance 获取某学期考勤记录（支持 since 增量）
// GET /api/v1/attendance?term=2025-1&since=RFC3339
func (h *AttendanceHandler) GetAttendance(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	term := c.Query("term")
	if term == "" {
		response.BadRequest(c, "term 不能为空")
		return
	}

	result, err := h.attendanceSvc.GetAttendance(c.Request.Context(), studentID, term, parseSince(c))
	if err != nil {
		if errors.Is(err, service.ErrTermRequired) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, "查询成功", result)
}
