package service

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
)

func newScheduleSvc(entries []model.ScheduleEntry) ScheduleService {
	repo := repoWith(func(r *repository.Repository) {
		r.Schedule = &mockScheduleRepo{entries: entries}
	})
	return NewScheduleService(repo, zap.NewNop())
}

func scheduleFixture() ([]model.ScheduleEntry, time.Time, time.Time) {
	t1 := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 8, 20, 10, 0, 0, 0, time.UTC)
	entries := []model.ScheduleEntry{
		{Term: "2025-1", Weekday: 1, Period: 1, CourseID: "CS101", UpdatedAt: t1},
		{Term: "2025-1", Weekday: 3, Period: 2, CourseID: "MA201", UpdatedAt: t2},
	}
	return entries, t1, t2
}

func TestScheduleService_FullFetch(t *testing.T) {
	entries, _, t2 := scheduleFixture()
	svc := newScheduleSvc(entries)

	resp, err := svc.GetSchedule(context.Background(), "2025-1", nil)
	if err != nil {
		t.Fatalf("GetSchedule 应成功: %v", err)
	}
	if len(resp.Entries) != 2 {
		t.Fatalf("全量应返回 2 条, got %d", len(resp.Entries))
	}
	if !resp.UpdatedAt.Equal(t2) {
		t.Fatalf("水位线应为最大 updatedAt %v, got %v", t2, resp.UpdatedAt)
	}
}

func TestScheduleService_SinceFilters(t *testing.T) {
	entries, t1, t2 := scheduleFixture()
	svc := newScheduleSvc(entries)

	resp, err := svc.GetSchedule(context.Background(), "2025-1", &t1)
	if err != nil {
		t.Fatalf("GetSchedule 应成功: %v", err)
	}
	if len(resp.Entries) != 1 || resp.Entries[0].CourseID != "MA201" {
		t.Fatalf("since=t1 应只返回 t1 之后的条目, got %+v", resp.Entries)
	}
	if !resp.UpdatedAt.Equal(t2) {
		t.Fatalf("增量响应水位线应不变: want %v got %v", t2, resp.UpdatedAt)
	}
}

func TestScheduleService_EmptyDeltaKeepsWatermark(t *testing.T) {
	entries, _, t2 := scheduleFixture()
	svc := newScheduleSvc(entries)

	// 远未来的 since：空增量不是错误，且水位线不回退
	future := time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC)
	resp, err := svc.GetSchedule(context.Background(), "2025-1", &future)
	if err != nil {
		t.Fatalf("空增量不应报错: %v", err)
	}
	if len(resp.Entries) != 0 {
		t.Fatalf("空增量应返回 0 条, got %d", len(resp.Entries))
	}
	if !resp.UpdatedAt.Equal(t2) {
		t.Fatalf("空增量应保持原水位线 %v, got %v", t2, resp.UpdatedAt)
	}
}

func TestScheduleService_TermRequired(t *testing.T) {
	svc := newScheduleSvc(nil)
	if _, err := svc.GetSchedule(context.Background(), "", nil); err != ErrTermRequired {
		t.Fatalf("空 term 应返回 ErrTermRequired, got %v", err)
	}
}
