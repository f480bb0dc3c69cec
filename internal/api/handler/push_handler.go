package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/response"
)

// PushHandler Web Push 模块 HTTP 处理器
type PushHandler struct {
	pushSvc service.PushService
}

// NewPushHandler 创建 PushHandler
func NewPushHandler(pushSvc service.PushService) *PushHandler {
	return &PushHandler{pushSvc: pushSvc}
}

// VAPIDKey 获取 VAPID 公钥
// GET /api/v1/push/vapid-key
func (h *PushHandler) VAPIDKey(c *gin.Context) {
	key, err := h.pushSvc.VAPIDPublicKey()
	if err != nil {
		response.Error(c, http.StatusServiceUnavailable, err.Error())
		return
	}

	response.OK(c, "查询成功", dto.VAPIDKeyResponse{PublicKey: key})
}

// Subscribe 保存推送订阅；登录用户的订阅会绑定到其账号
// POST /api/v1/push/subscribe
func (h *PushHandler) Subscribe(c *gin.Context) {
	var req dto.SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	// 可选认证：上下文存在 user_id 时绑定
	var userID *string
	if v, exists := c.Get("user_id"); exists {
		if s, ok := v.(string); ok && s != "" {
			userID = &s
		}
	}

	if err := h.pushSvc.Subscribe(c.Request.Context(), userID, &req, c.GetHeader("User-Agent")); err != nil {
		if errors.Is(err, service.ErrInvalidSubscription) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	response.Created(c, "订阅成功", nil)
}

// Unsubscribe 取消推送订阅
// POST /api/v1/push/unsubscribe
func (h *PushHandler) Unsubscribe(c *gin.Context) {
	var req dto.UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := h.pushSvc.Unsubscribe(c.Request.Context(), req.Endpoint); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, "已取消订阅", nil)
}

// SendAll 向全部订阅推送（仅教师 / 管理员）
// POST /api/v1/push/send-all
func (h *PushHandler) SendAll(c *gin.Context) {
	var req dto.PushMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	result, err := h.pushSvc.SendToAll(c.Request.Context(), &req)
	if err != nil {
		h.handlePushError(c, err)
		return
	}

	response.OK(c, "推送完成", result)
}

// SendUser 向指定用户推送（仅教师 / 管理员）
// POST /api/v1/push/send-user
func (h *PushHandler) SendUser(c *gin.Context) {
	var req dto.PushMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}
	if req.UserID == "" {
		response.BadRequest(c, "userId 不能为空")
		return
	}

	result, err := h.pushSvc.SendToUser(c.Request.Context(), req.UserID, &req)
	if err != nil {
		h.handlePushError(c, err)
		return
	}

	response.OK(c, "推送完成", result)
}

// Stats 订阅统计（仅教师 / 管理员）
// GET /api/v1/push/stats
func (h *PushHandler) Stats(c *gin.Context) {
	result, err := h.pushSvc.Stats(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, "查询成功", result)
}

func (h *PushHandler) handlePushError(c *gin.Context, err error) {
	if errors.Is(err, service.ErrPushDisabled) {
		response.Error(c, http.StatusServiceUnavailable, err.Error())
		return
	}
	response.InternalError(c)
}
