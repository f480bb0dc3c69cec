package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/response"
)

// TranscriptHandler 成绩单模块 HTTP 处理器
type TranscriptHandler struct {
	transcriptSvc service.TranscriptService
}

// NewTranscriptHandler 创建 TranscriptHandler
func NewTranscriptHandler(transcriptSvc service.TranscriptService) *TranscriptHandler {
	return &TranscriptHandler{transcriptSvc: transcriptSvc}
}

// GetTranscripts 获取多学期成绩单（支持 since 增量）
// GET /api/v1/me/transcripts?terms=2024-2,2025-1&since=RFC3339
func (h *TranscriptHandler) GetTranscripts(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	terms := splitTerms(c.Query("terms"))
	if len(terms) == 0 {
		response.BadRequest(c, "terms 不能为空")
		return
	}

	result, err := h.transcriptSvc.GetTranscripts(c.Request.Context(), studentID, terms, parseSince(c))
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, "查询成功", result)
}

// splitTerms 解析逗号分隔的学期列表
func splitTerms(raw string) []string {
	parts := strings.Split(raw, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
