package sync

import (
	"encoding/json"
	"fmt"

	"campus-portal/backend/internal/client/store"
	"campus-portal/backend/internal/dto"
)

// 投影：把服务端响应压成镜像里的纯数据记录。
// 缺少合并键或 updatedAt 的条目在这里被拦下并丢弃，
// 镜像中永远只有可安全合并的记录。

func projectScheduleEntry(entity string, e *dto.ScheduleEntryResponse) (store.Record, error) {
	if e.CourseID == "" {
		return store.Record{}, fmt.Errorf("课表条目缺少 courseId")
	}
	if e.UpdatedAt.IsZero() {
		return store.Record{}, fmt.Errorf("课表条目 %s 缺少 updatedAt", e.CourseID)
	}

	payload, err := json.Marshal(e)
	if err != nil {
		return store.Record{}, err
	}
	return store.Record{
		Entity:    entity,
		Key:       fmt.Sprintf("%d-%d-%s", e.Weekday, e.Period, e.CourseID),
		UpdatedAt: e.UpdatedAt.UTC(),
		Payload:   payload,
	}, nil
}

func projectAnnouncement(a *dto.AnnouncementResponse) (store.Record, error) {
	if a.ID == "" {
		return store.Record{}, fmt.Errorf("公告缺少 id")
	}
	if a.UpdatedAt.IsZero() {
		return store.Record{}, fmt.Errorf("公告 %s 缺少 updatedAt", a.ID)
	}

	payload, err := json.Marshal(a)
	if err != nil {
		return store.Record{}, err
	}
	return store.Record{
		Entity:    "announcements",
		Key:       a.ID,
		UpdatedAt: a.UpdatedAt.UTC(),
		Payload:   payload,
	}, nil
}

func projectEvent(ev *dto.EventResponse) (store.Record, error) {
	if ev.ID == "" {
		return store.Record{}, fmt.Errorf("行事历事件缺少 id")
	}
	if ev.UpdatedAt.IsZero() {
		return store.Record{}, fmt.Errorf("行事历事件 %s 缺少 updatedAt", ev.ID)
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		return store.Record{}, err
	}
	return store.Record{
		Entity:    "events",
		Key:       ev.ID,
		UpdatedAt: ev.UpdatedAt.UTC(),
		Payload:   payload,
	}, nil
}

func projectAttendance(entity string, r *dto.AttendanceRecordResponse) (store.Record, error) {
	if r.ID == "" {
		return store.Record{}, fmt.Errorf("考勤记录缺少 id")
	}
	if r.UpdatedAt.IsZero() {
		return store.Record{}, fmt.Errorf("考勤记录 %s 缺少 updatedAt", r.ID)
	}

	payload, err := json.Marshal(r)
	if err != nil {
		return store.Record{}, err
	}
	return store.Record{
		Entity:    entity,
		Key:       r.ID,
		UpdatedAt: r.UpdatedAt.UTC(),
		Payload:   payload,
	}, nil
}

func projectTranscriptTerm(t *dto.TranscriptTermResponse) (store.Record, error) {
	if t.Term == "" {
		return store.Record{}, fmt.Errorf("成绩单缺少 term")
	}
	if t.UpdatedAt.IsZero() {
		return store.Record{}, fmt.Errorf("成绩单 %s 缺少 updatedAt", t.Term)
	}

	payload, err := json.Marshal(t)
	if err != nil {
		return store.Record{}, err
	}
	return store.Record{
		Entity:    "transcripts",
		Key:       t.Term,
		UpdatedAt: t.UpdatedAt.UTC(),
		Payload:   payload,
	}, nil
}

func projectLeaveItem(item *dto.LeaveRequestResponse) (store.Record, error) {
	if item.ID == "" {
		return store.Record{}, fmt.Errorf("请假单缺少 id")
	}

	payload, err := json.Marshal(item)
	if err != nil {
		return store.Record{}, err
	}
	return store.Record{
		Entity:    "leave",
		Key:       item.ID,
		UpdatedAt: item.UpdatedAt.UTC(),
		Payload:   payload,
	}, nil
}

func marshalLeave(req *dto.CreateLeaveRequest) (json.RawMessage, error) {
	if req.DateRange == nil {
		return nil, fmt.Errorf("请假请求缺少日期区间")
	}
	return json.Marshal(req)
}
