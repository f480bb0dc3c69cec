package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/response"
)

// ScheduleHandler 课表模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// GetSchedule 获取某学期课表（支持 since 增量）
// GET /api/v1/schedule?term=2025-1&since=RFC3339
func (h *ScheduleHandler) GetSchedule(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		response.BadRequest(c, "term 不能为空")
		return
	}

	result, err := h.scheduleSvc.GetSchedule(c.Request.Context(), term, parseSince(c))
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
