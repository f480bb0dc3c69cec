package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/response"
)

// AnnouncementHandler 公告模块 HTTP 处理器
type AnnouncementHandler struct {
	announcementSvc service.AnnouncementService
	readReceiptSvc  service.ReadReceiptService
}

// NewAnnouncementHandler 创建 AnnouncementHandler
func NewAnnouncementHandler(
	announcementSvc service.AnnouncementService,
	readReceiptSvc service.ReadReceiptService,
) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementSvc: announcementSvc,
		readReceiptSvc:  readReceiptSvc,
	}
}

// List 获取公告列表（支持 since 增量），附件带短效签名地址
// GET /api/v1/announcements?since=RFC3339
func (h *AnnouncementHandler) List(c *gin.Context) {
	result, err := h.announcementSvc.List(c.Request.Context(), parseSince(c))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, "查询成功", result)
}

// MarkAsRead 标记公告已读；重复标记返回 duplicated=true 与首次时间
// POST /api/v1/announcements/:id/read
func (h *AnnouncementHandler) MarkAsRead(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	announcementID := c.Param("id")

	receipt, err := h.readReceiptSvc.MarkAsRead(c.Request.Context(), userID, announcementID)
	if err != nil {
		if errors.Is(err, service.ErrAnnouncementNotFound) {
			response.NotFound(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	receipt.ID = announcementID
	response.OK(c, "标记成功", receipt)
}
