// Package sync 实现客户端的增量同步引擎：
// 拉取 → 投影 → LWW 合并 → 推进水位线，以及离线写队列的顺序冲刷。
package sync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/internal/client/api"
	"campus-portal/backend/internal/client/store"
	"campus-portal/backend/internal/dto"
)

// Engine 同步引擎
//
// 同一实体的同步串行执行（按实体粒度加锁），
// 不同实体之间互不阻塞。
type Engine struct {
	store  *store.Store
	api    *api.Client
	logger *zap.Logger

	mu    stdsync.Mutex
	locks map[string]*stdsync.Mutex
}

// NewEngine 创建同步引擎
func NewEngine(st *store.Store, client *api.Client, logger *zap.Logger) *Engine {
	return &Engine{
		store:  st,
		api:    client,
		logger: logger,
		locks:  make(map[string]*stdsync.Mutex),
	}
}

// lockFor 取实体级互斥锁
func (e *Engine) lockFor(entity string) *stdsync.Mutex {
	e.mu.Lock()
	defer e.mu.Unlock()
	if l, ok := e.locks[entity]; ok {
		return l
	}
	l := &stdsync.Mutex{}
	e.locks[entity] = l
	return l
}

// cursorSince 读水位线并转为 since 指针
func (e *Engine) cursorSince(ctx context.Context, entity, scope string) (*time.Time, error) {
	at, ok, err := e.store.Cursor(ctx, entity, scope)
	if err != nil || !ok {
		return nil, err
	}
	return &at, nil
}

// SyncSchedule 同步某学期课表
//
// 水位线取服务端集合水位线：增量为空时它保持不变，
// 紧随其后的第二次同步必然是空操作。
func (e *Engine) SyncSchedule(ctx context.Context, term string) (int, error) {
	entity := "schedule:" + term
	l := e.lockFor(entity)
	l.Lock()
	defer l.Unlock()

	since, err := e.cursorSince(ctx, "schedule", term)
	if err != nil {
		return 0, err
	}

	resp, err := e.api.Schedule(ctx, term, since)
	if err != nil {
		return 0, err
	}

	records := make([]store.Record, 0, len(resp.Entries))
	for i := range resp.Entries {
		rec, err := projectScheduleEntry(entity, &resp.Entries[i])
		if err != nil {
			e.logger.Warn("丢弃畸形课表条目", zap.String("term", term), zap.Error(err))
			continue
		}
		records = append(records, rec)
	}

	applied, err := e.store.MergeBatch(ctx, records)
	if err != nil {
		return 0, err
	}

	if err := e.store.AdvanceCursor(ctx, "schedule", term, resp.UpdatedAt); err != nil {
		return applied, err
	}
	return applied, nil
}

// SyncAnnouncements 同步公告
func (e *Engine) SyncAnnouncements(ctx context.Context) (int, error) {
	const entity = "announcements"
	l := e.lockFor(entity)
	l.Lock()
	defer l.Unlock()

	since, err := e.cursorSince(ctx, entity, "-")
	if err != nil {
		return 0, err
	}

	resp, err := e.api.Announcements(ctx, since)
	if err != nil {
		return 0, err
	}

	var watermark time.Time
	records := make([]store.Record, 0, len(resp.Items))
	for i := range resp.Items {
		rec, err := projectAnnouncement(&resp.Items[i])
		if err != nil {
			e.logger.Warn("丢弃畸形公告", zap.Error(err))
			continue
		}
		records = append(records, rec)
		if rec.UpdatedAt.After(watermark) {
			watermark = rec.UpdatedAt
		}
	}

	applied, err := e.store.MergeBatch(ctx, records)
	if err != nil {
		return 0, err
	}

	// 空增量不推进水位线
	if err := e.store.AdvanceCursor(ctx, entity, "-", watermark); err != nil {
		return applied, err
	}
	return applied, nil
}

// SyncEvents 同步当前学期行事历
func (e *Engine) SyncEvents(ctx context.Context) (int, error) {
	const entity = "events"
	l := e.lockFor(entity)
	l.Lock()
	defer l.Unlock()

	since, err := e.cursorSince(ctx, entity, "current")
	if err != nil {
		return 0, err
	}

	resp, err := e.api.Events(ctx, since)
	if err != nil {
		return 0, err
	}

	var watermark time.Time
	records := make([]store.Record, 0, len(resp.Items))
	for i := range resp.Items {
		rec, err := projectEvent(&resp.Items[i])
		if err != nil {
			e.logger.Warn("丢弃畸形行事历事件", zap.Error(err))
			continue
		}
		records = append(records, rec)
		if rec.UpdatedAt.After(watermark) {
			watermark = rec.UpdatedAt
		}
	}

	applied, err := e.store.MergeBatch(ctx, records)
	if err != nil {
		return 0, err
	}
	if err := e.store.AdvanceCursor(ctx, entity, "current", watermark); err != nil {
		return applied, err
	}
	return applied, nil
}

// SyncAttendance 同步某学期考勤（需登录）
func (e *Engine) SyncAttendance(ctx context.Context, term string) (int, error) {
	entity := "attendance:" + term
	l := e.lockFor(entity)
	l.Lock()
	defer l.Unlock()

	since, err := e.cursorSince(ctx, "attendance", term)
	if err != nil {
		return 0, err
	}

	resp, err := e.api.Attendance(ctx, term, since)
	if err != nil {
		return 0, err
	}

	var watermark time.Time
	records := make([]store.Record, 0, len(resp.Items))
	for i := range resp.Items {
		rec, err := projectAttendance(entity, &resp.Items[i])
		if err != nil {
			e.logger.Warn("丢弃畸形考勤记录", zap.Error(err))
			continue
		}
		records = append(records, rec)
		if rec.UpdatedAt.After(watermark) {
			watermark = rec.UpdatedAt
		}
	}

	applied, err := e.store.MergeBatch(ctx, records)
	if err != nil {
		return 0, err
	}
	if err := e.store.AdvanceCursor(ctx, "attendance", term, watermark); err != nil {
		return applied, err
	}
	return applied, nil
}

// SyncTranscripts 同步多学期成绩单（需登录）
func (e *Engine) SyncTranscripts(ctx context.Context, terms string) (int, error) {
	const entity = "transcripts"
	l := e.lockFor(entity)
	l.Lock()
	defer l.Unlock()

	since, err := e.cursorSince(ctx, entity, terms)
	if err != nil {
		return 0, err
	}

	resp, err := e.api.Transcripts(ctx, terms, since)
	if err != nil {
		return 0, err
	}

	var watermark time.Time
	records := make([]store.Record, 0, len(resp.Items))
	for i := range resp.Items {
		rec, err := projectTranscriptTerm(&resp.Items[i])
		if err != nil {
			e.logger.Warn("丢弃畸形成绩单", zap.Error(err))
			continue
		}
		records = append(records, rec)
		if rec.UpdatedAt.After(watermark) {
			watermark = rec.UpdatedAt
		}
	}

	applied, err := e.store.MergeBatch(ctx, records)
	if err != nil {
		return 0, err
	}
	if err := e.store.AdvanceCursor(ctx, entity, terms, watermark); err != nil {
		return applied, err
	}
	return applied, nil
}

// SyncAll 同步全部实体；登录态下额外同步考勤与成绩单
func (e *Engine) SyncAll(ctx context.Context, term, transcriptTerms string) error {
	if _, err := e.SyncSchedule(ctx, term); err != nil {
		return fmt.Errorf("同步课表失败: %w", err)
	}
	if _, err := e.SyncAnnouncements(ctx); err != nil {
		return fmt.Errorf("同步公告失败: %w", err)
	}
	if _, err := e.SyncEvents(ctx); err != nil {
		return fmt.Errorf("同步行事历失败: %w", err)
	}

	if e.api.Authenticated() {
		if _, err := e.SyncAttendance(ctx, term); err != nil {
			return fmt.Errorf("同步考勤失败: %w", err)
		}
		if transcriptTerms != "" {
			if _, err := e.SyncTranscripts(ctx, transcriptTerms); err != nil {
				return fmt.Errorf("同步成绩单失败: %w", err)
			}
		}
	}
	return nil
}

// EnqueueLeave 将请假请求放入离线队列
func (e *Engine) EnqueueLeave(ctx context.Context, req *dto.CreateLeaveRequest) (*store.QueuedLeave, error) {
	payload, err := marshalLeave(req)
	if err != nil {
		return nil, err
	}
	return e.store.Enqueue(ctx, payload)
}

// PendingLeaves 返回队列中待提交的请假项
func (e *Engine) PendingLeaves(ctx context.Context) ([]store.QueuedLeave, error) {
	return e.store.ListQueue(ctx)
}

// FlushLeaveQueue 按入队顺序冲刷离线队列
//
// 逐项提交，服务端确认后才出队并并入本地镜像；
// 任何一项失败立即停止，之后的项留在队列中保持顺序。
// 返回成功冲刷的项数。
func (e *Engine) FlushLeaveQueue(ctx context.Context) (int, error) {
	l := e.lockFor("leave")
	l.Lock()
	defer l.Unlock()

	items, err := e.store.ListQueue(ctx)
	if err != nil {
		return 0, err
	}

	flushed := 0
	for _, item := range items {
		resp, err := e.api.CreateLeave(ctx, item.IdempotencyKey, item.Payload)
		if err != nil {
			return flushed, fmt.Errorf("提交队列第 %d 项失败: %w", item.Seq, err)
		}

		if resp.Item != nil {
			rec, perr := projectLeaveItem(resp.Item)
			if perr == nil {
				if _, merr := e.store.MergeBatch(ctx, []store.Record{rec}); merr != nil {
					e.logger.Warn("合并请假回执失败", zap.Error(merr))
				}
			}
		}

		if err := e.store.Dequeue(ctx, item.Seq); err != nil {
			return flushed, fmt.Errorf("出队第 %d 项失败: %w", item.Seq, err)
		}
		flushed++
	}
	return flushed, nil
}
