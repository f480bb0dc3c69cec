package sync

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/internal/client/api"
	"campus-portal/backend/internal/client/store"
	"campus-portal/backend/internal/dto"
)

// fakeBackend 模拟门户后端：记录收到的 since，按水位线回增量
type fakeBackend struct {
	entries   []dto.ScheduleEntryResponse
	watermark time.Time

	sinceSeen []string
	leaveKeys []string
	failLeave map[string]bool // 幂等键 → 是否返回 500
}

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]any{
		"success":   success,
		"message":   message,
		"data":      data,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (f *fakeBackend) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/v1/schedule", func(w http.ResponseWriter, r *http.Request) {
		since := r.URL.Query().Get("since")
		f.sinceSeen = append(f.sinceSeen, since)

		entries := f.entries
		if since != "" {
			cutoff, err := time.Parse(time.RFC3339, since)
			if err == nil {
				filtered := make([]dto.ScheduleEntryResponse, 0)
				for _, e := range entries {
					if e.UpdatedAt.After(cutoff) {
						filtered = append(filtered, e)
					}
				}
				entries = filtered
			}
		}

		// 水位线是集合级的：增量为空时保持不变
		writeEnvelope(w, http.StatusOK, true, "ok", dto.ScheduleResponse{
			Term:      r.URL.Query().Get("term"),
			UpdatedAt: f.watermark,
			Entries:   entries,
		})
	})

	mux.HandleFunc("POST /api/v1/leave-requests", func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get("Idempotency-Key")
		f.leaveKeys = append(f.leaveKeys, key)

		if f.failLeave[key] {
			writeEnvelope(w, http.StatusInternalServerError, false, "服务器内部错误", nil)
			return
		}

		var req dto.CreateLeaveRequest
		json.NewDecoder(r.Body).Decode(&req)
		writeEnvelope(w, http.StatusCreated, true, "请假单创建成功", dto.LeaveItemResponse{
			Item: &dto.LeaveRequestResponse{
				ID:        "req-" + key,
				Status:    "pending",
				Reason:    req.Reason,
				UpdatedAt: time.Now().UTC(),
			},
		})
	})

	return mux
}

func newTestEngine(t *testing.T, backend *fakeBackend) (*Engine, *store.Store) {
	t.Helper()

	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	st, err := store.Open(filepath.Join(t.TempDir(), "portal.db"))
	if err != nil {
		t.Fatalf("Open 应成功: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return NewEngine(st, api.New(srv.URL, "test-token"), zap.NewNop()), st
}

func TestSyncSchedule_SecondSyncIsNoop(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

	backend := &fakeBackend{
		entries: []dto.ScheduleEntryResponse{
			{Weekday: 1, Period: 2, CourseID: "CS101", Room: "A101", UpdatedAt: t1},
			{Weekday: 3, Period: 4, CourseID: "MA201", Room: "B202", UpdatedAt: t1.Add(-time.Hour)},
		},
		watermark: t1,
	}
	engine, st := newTestEngine(t, backend)

	applied, err := engine.SyncSchedule(ctx, "2025-1")
	if err != nil {
		t.Fatalf("首次同步应成功: %v", err)
	}
	if applied != 2 {
		t.Fatalf("首次同步应落盘 2 条, got %d", applied)
	}

	// 紧随其后的第二次同步必须是空操作
	applied, err = engine.SyncSchedule(ctx, "2025-1")
	if err != nil {
		t.Fatalf("二次同步应成功: %v", err)
	}
	if applied != 0 {
		t.Fatalf("二次同步不应有任何落盘, got %d", applied)
	}

	if len(backend.sinceSeen) != 2 || backend.sinceSeen[0] != "" {
		t.Fatalf("首次请求不应带 since: %v", backend.sinceSeen)
	}
	if backend.sinceSeen[1] != t1.Format(time.RFC3339) {
		t.Fatalf("二次请求应带水位线 since: %s", backend.sinceSeen[1])
	}

	// 镜像与水位线都保持不变
	rows, _ := st.List(ctx, "schedule:2025-1")
	if len(rows) != 2 {
		t.Fatalf("镜像应为 2 条, got %d", len(rows))
	}
	cursor, ok, _ := st.Cursor(ctx, "schedule", "2025-1")
	if !ok || !cursor.Equal(t1) {
		t.Fatalf("水位线应为 %v, got %v ok=%v", t1, cursor, ok)
	}
}

func TestSyncSchedule_MalformedEntryDropped(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

	backend := &fakeBackend{
		entries: []dto.ScheduleEntryResponse{
			{Weekday: 1, Period: 2, CourseID: "CS101", UpdatedAt: t1},
			{Weekday: 2, Period: 3, CourseID: "", UpdatedAt: t1}, // 缺合并键
			{Weekday: 4, Period: 1, CourseID: "PH301"},           // 缺 updatedAt
		},
		watermark: t1,
	}
	engine, st := newTestEngine(t, backend)

	applied, err := engine.SyncSchedule(ctx, "2025-1")
	if err != nil {
		t.Fatalf("同步应成功: %v", err)
	}
	if applied != 1 {
		t.Fatalf("畸形条目应被丢弃, 只落盘 1 条, got %d", applied)
	}

	rows, _ := st.List(ctx, "schedule:2025-1")
	if len(rows) != 1 || rows[0].Key != "1-2-CS101" {
		t.Fatalf("镜像应只含合法条目: %+v", rows)
	}
}

func TestFlushLeaveQueue_StopsOnFirstFailure(t *testing.T) {
	ctx := context.Background()
	backend := &fakeBackend{failLeave: map[string]bool{}}
	engine, st := newTestEngine(t, backend)

	enqueue := func(reason string) *store.QueuedLeave {
		item, err := engine.EnqueueLeave(ctx, &dto.CreateLeaveRequest{
			DateRange: &dto.DateRange{
				Start: time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
				End:   time.Date(2025, 9, 2, 0, 0, 0, 0, time.UTC),
			},
			Reason: reason,
		})
		if err != nil {
			t.Fatalf("EnqueueLeave 应成功: %v", err)
		}
		return item
	}

	first := enqueue("one")
	second := enqueue("two")
	third := enqueue("three")

	// 第二项提交失败
	backend.failLeave[second.IdempotencyKey] = true

	flushed, err := engine.FlushLeaveQueue(ctx)
	if err == nil {
		t.Fatal("中途失败应返回错误")
	}
	if flushed != 1 {
		t.Fatalf("失败前应只冲刷第一项, got %d", flushed)
	}

	// 第一项已确认出队并并入镜像
	rows, _ := st.List(ctx, "leave")
	if len(rows) != 1 || rows[0].Key != "req-"+first.IdempotencyKey {
		t.Fatalf("镜像应只含已确认的第一项: %+v", rows)
	}

	// 之后的项保序留在队列中
	remaining, _ := engine.PendingLeaves(ctx)
	if len(remaining) != 2 ||
		remaining[0].Seq != second.Seq || remaining[1].Seq != third.Seq {
		t.Fatalf("失败项之后应保序留队: %+v", remaining)
	}

	// 恢复后重试：沿用同一幂等键，全部冲刷干净
	backend.failLeave[second.IdempotencyKey] = false
	flushed, err = engine.FlushLeaveQueue(ctx)
	if err != nil {
		t.Fatalf("恢复后冲刷应成功: %v", err)
	}
	if flushed != 2 {
		t.Fatalf("恢复后应冲刷剩余 2 项, got %d", flushed)
	}

	retried := strings.Join(backend.leaveKeys, ",")
	if !strings.Contains(retried, second.IdempotencyKey+","+second.IdempotencyKey) {
		t.Fatalf("重试应沿用同一幂等键: %s", retried)
	}

	if remaining, _ = engine.PendingLeaves(ctx); len(remaining) != 0 {
		t.Fatalf("队列应已清空: %+v", remaining)
	}
}
