package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/pkg/response"
)

// MustGetUserID 从 Gin 上下文中安全提取 user_id。
// 如果 JWT 中间件未正确注入 user_id，返回 false 并写入 401 响应。
// 调用方应在 ok=false 时直接 return。
func MustGetUserID(c *gin.Context) (string, bool) {
	v, exists := c.Get("user_id")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// MustGetStudentID 从 Gin 上下文中安全提取 student_id。
func MustGetStudentID(c *gin.Context) (string, bool) {
	v, exists := c.Get("student_id")
	if !exists {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, "未认证")
		return "", false
	}
	return s, true
}

// parseSince 解析 since 查询参数（RFC3339）
//
// 缺失或无法解析时视为未提供，按全量处理，不报错。
func parseSince(c *gin.Context) *time.Time {
	raw := c.Query("since")
	if raw == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil
	}
	u := t.UTC()
	return &u
}
