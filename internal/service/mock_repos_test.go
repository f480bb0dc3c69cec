package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
)

// ── 手写内存 Repo，供各 Service 单测使用 ──

type mockScheduleRepo struct {
	entries []model.ScheduleEntry
}

func (m *mockScheduleRepo) ListByTerm(_ context.Context, term string) ([]model.ScheduleEntry, error) {
	var out []model.ScheduleEntry
	for _, e := range m.entries {
		if e.Term == term {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) ListUpdatedSince(_ context.Context, term string, since time.Time) ([]model.ScheduleEntry, error) {
	var out []model.ScheduleEntry
	for _, e := range m.entries {
		if e.Term == term && e.UpdatedAt.After(since) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (m *mockScheduleRepo) MaxUpdatedAt(_ context.Context, term string) (time.Time, error) {
	var max time.Time
	for _, e := range m.entries {
		if e.Term == term && e.UpdatedAt.After(max) {
			max = e.UpdatedAt
		}
	}
	return max, nil
}

type mockAnnouncementRepo struct {
	items []model.Announcement
}

func (m *mockAnnouncementRepo) GetByID(_ context.Context, id string) (*model.Announcement, error) {
	for i := range m.items {
		if m.items[i].AnnouncementID == id {
			return &m.items[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) List(_ context.Context) ([]model.Announcement, error) {
	return append([]model.Announcement(nil), m.items...), nil
}

func (m *mockAnnouncementRepo) ListUpdatedSince(_ context.Context, since time.Time) ([]model.Announcement, error) {
	var out []model.Announcement
	for _, a := range m.items {
		if a.UpdatedAt.After(since) {
			out = append(out, a)
		}
	}
	return out, nil
}

type mockTranscriptRepo struct {
	terms   []model.TranscriptTerm
	courses []model.TranscriptCourse
}

func (m *mockTranscriptRepo) GetTerm(_ context.Context, studentID, term string) (*model.TranscriptTerm, error) {
	for i := range m.terms {
		if m.terms[i].StudentID == studentID && m.terms[i].Term == term {
			return &m.terms[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockTranscriptRepo) ListCourses(_ context.Context, studentID, term string) ([]model.TranscriptCourse, error) {
	var out []model.TranscriptCourse
	for _, c := range m.courses {
		if c.StudentID == studentID && c.Term == term {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockTranscriptRepo) ListCoursesUpdatedSince(_ context.Context, studentID, term string, since time.Time) ([]model.TranscriptCourse, error) {
	var out []model.TranscriptCourse
	for _, c := range m.courses {
		if c.StudentID == studentID && c.Term == term && c.UpdatedAt.After(since) {
			out = append(out, c)
		}
	}
	return out, nil
}

type mockLeaveRepo struct {
	created []model.LeaveRequest
}

func (m *mockLeaveRepo) Create(_ context.Context, req *model.LeaveRequest) error {
	now := time.Now().UTC()
	req.CreatedAt = now
	req.UpdatedAt = now
	m.created = append(m.created, *req)
	return nil
}

func (m *mockLeaveRepo) GetByID(_ context.Context, id string) (*model.LeaveRequest, error) {
	for i := range m.created {
		if m.created[i].RequestID == id {
			return &m.created[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLeaveRepo) ListByUser(_ context.Context, userID string) ([]model.LeaveRequest, error) {
	var out []model.LeaveRequest
	for _, r := range m.created {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockLeaveRepo) Update(_ context.Context, req *model.LeaveRequest) error {
	for i := range m.created {
		if m.created[i].RequestID == req.RequestID {
			req.UpdatedAt = time.Now().UTC()
			m.created[i] = *req
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

// repoWith 组装只填充被测 Repo 的聚合
func repoWith(fill func(r *repository.Repository)) *repository.Repository {
	r := &repository.Repository{}
	fill(r)
	return r
}
