package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/config"
	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/response"
)

// SSOHandler Microsoft 单点登录 HTTP 处理器
type SSOHandler struct {
	ssoSvc      service.SSOService
	frontendURL string
}

// NewSSOHandler 创建 SSOHandler
func NewSSOHandler(cfg *config.Config, ssoSvc service.SSOService) *SSOHandler {
	return &SSOHandler{
		ssoSvc:      ssoSvc,
		frontendURL: cfg.Server.FrontendURL,
	}
}

// Status 查询 SSO 是否可用
// GET /api/v1/sso/status
func (h *SSOHandler) Status(c *gin.Context) {
	response.OK(c, "查询成功", gin.H{"enabled": h.ssoSvc.Enabled()})
}

// Authorize 跳转到 Microsoft 授权页
// GET /api/v1/sso/microsoft/authorize
func (h *SSOHandler) Authorize(c *gin.Context) {
	authURL, err := h.ssoSvc.AuthorizeURL(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrSSODisabled) {
			response.Error(c, http.StatusServiceUnavailable, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

// Callback 授权回调：换码、建档并带 token 跳回前端
// GET /api/v1/sso/callback
func (h *SSOHandler) Callback(c *gin.Context) {
	state := c.Query("state")
	code := c.Query("code")
	if state == "" || code == "" {
		response.BadRequest(c, "缺少 state 或 code 参数")
		return
	}

	token, err := h.ssoSvc.Callback(c.Request.Context(), state, code)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidSSOState):
			response.BadRequest(c, err.Error())
		case errors.Is(err, service.ErrSSODisabled):
			response.Error(c, http.StatusServiceUnavailable, err.Error())
		default:
			response.InternalError(c)
		}
		return
	}

	c.Redirect(http.StatusFound, fmt.Sprintf("%s/sso/callback?token=%s",
		h.frontendURL, url.QueryEscape(token.Token)))
}
