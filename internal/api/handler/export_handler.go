package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// TranscriptXLSX 导出成绩单 Excel
// GET /api/v1/me/transcripts/export?terms=2024-2,2025-1
func (h *ExportHandler) TranscriptXLSX(c *gin.Context) {
	studentID, ok := MustGetStudentID(c)
	if !ok {
		return
	}

	terms := splitTerms(c.Query("terms"))
	if len(terms) == 0 {
		response.BadRequest(c, "terms 不能为空")
		return
	}

	buf, err := h.exportSvc.TranscriptXLSX(c.Request.Context(), studentID, terms)
	if err != nil {
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="transcript-%s.xlsx"`, studentID))
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		buf.Bytes())
}

// ScheduleICS 导出课表 iCalendar
// GET /api/v1/schedule/export.ics?term=2025-1
func (h *ExportHandler) ScheduleICS(c *gin.Context) {
	term := c.Query("term")
	if term == "" {
		response.BadRequest(c, "term 不能为空")
		return
	}

	data, err := h.exportSvc.ScheduleICS(c.Request.Context(), term)
	if err != nil {
		if errors.Is(err, service.ErrTermRequired) {
			response.BadRequest(c, err.Error())
			return
		}
		response.InternalError(c)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="schedule-%s.ics"`, term))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", data)
}
