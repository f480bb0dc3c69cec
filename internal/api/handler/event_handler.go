package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/response"
)

// EventHandler 行事历模块 HTTP 处理器
type EventHandler struct {
	eventSvc service.EventService
}

// NewEventHandler 创建 EventHandler
func NewEventHandler(eventSvc service.EventService) *EventHandler {
	return &EventHandler{eventSvc: eventSvc}
}

// List 获取行事历事件
// GET /api/v1/events?range=2025-09-01..2025-09-30&since=RFC3339
// GET /api/v1/events?term=current
func (h *EventHandler) List(c *gin.Context) {
	q := service.EventQuery{
		Range: c.Query("range"),
		Term:  c.Query("term"),
		Since: parseSince(c),
	}

	result, err := h.eventSvc.ListEvents(c.Request.Context(), q)
	if err != nil {
		if errors.Is(err, service.ErrInvalidEventRange) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, "查询成功", result)
}
