package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "portal.db"))
	if err != nil {
		t.Fatalf("Open 应成功: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func rec(entity, key string, at time.Time, payload string) Record {
	return Record{Entity: entity, Key: key, UpdatedAt: at, Payload: json.RawMessage(payload)}
}

func TestMergeBatch_Idempotent(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	t1 := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	batch := []Record{
		rec("announcements", "a-1", t1, `{"id":"a-1"}`),
		rec("announcements", "a-2", t1, `{"id":"a-2"}`),
	}

	applied, err := s.MergeBatch(ctx, batch)
	if err != nil || applied != 2 {
		t.Fatalf("首次合并应落盘 2 条: applied=%d err=%v", applied, err)
	}

	// 同一批次再次合并是空操作
	applied, err = s.MergeBatch(ctx, batch)
	if err != nil {
		t.Fatalf("重复合并不应报错: %v", err)
	}
	if applied != 0 {
		t.Fatalf("重复合并不应有任何落盘, got %d", applied)
	}

	rows, _ := s.List(ctx, "announcements")
	if len(rows) != 2 {
		t.Fatalf("镜像应仍为 2 条, got %d", len(rows))
	}
}

func TestMergeBatch_LastWriteWins(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	t1 := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	s.MergeBatch(ctx, []Record{rec("announcements", "a-1", t2, `{"v":"new"}`)})

	// 更旧的记录不能覆盖
	applied, err := s.MergeBatch(ctx, []Record{rec("announcements", "a-1", t1, `{"v":"old"}`)})
	if err != nil || applied != 0 {
		t.Fatalf("旧记录不应覆盖: applied=%d err=%v", applied, err)
	}

	got, _ := s.Get(ctx, "announcements", "a-1")
	if string(got.Payload) != `{"v":"new"}` {
		t.Fatalf("应保留较新的负载, got %s", got.Payload)
	}
}

func TestMergeBatch_DisjointBatchesCommute(t *testing.T) {
	ctx := context.Background()
	t1 := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)

	batchA := []Record{rec("events", "e-1", t1, `{"id":"e-1"}`)}
	batchB := []Record{rec("events", "e-2", t1, `{"id":"e-2"}`)}

	// A 后 B
	s1 := openTestStore(t)
	s1.MergeBatch(ctx, batchA)
	s1.MergeBatch(ctx, batchB)
	rows1, _ := s1.List(ctx, "events")

	// B 后 A
	s2 := openTestStore(t)
	s2.MergeBatch(ctx, batchB)
	s2.MergeBatch(ctx, batchA)
	rows2, _ := s2.List(ctx, "events")

	if len(rows1) != 2 || len(rows2) != 2 {
		t.Fatalf("两种顺序都应得到 2 条: %d vs %d", len(rows1), len(rows2))
	}
	for i := range rows1 {
		if rows1[i].Key != rows2[i].Key || string(rows1[i].Payload) != string(rows2[i].Payload) {
			t.Fatalf("不相交批次的合并应与顺序无关:\n%v\n%v", rows1[i], rows2[i])
		}
	}
}

func TestCursor_AdvanceOnly(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	if _, ok, _ := s.Cursor(ctx, "schedule", "2025-1"); ok {
		t.Fatal("初始应无水位线")
	}

	t1 := time.Date(2025, 8, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Hour)

	s.AdvanceCursor(ctx, "schedule", "2025-1", t2)

	// 尝试回退：应保持不动
	s.AdvanceCursor(ctx, "schedule", "2025-1", t1)

	got, ok, err := s.Cursor(ctx, "schedule", "2025-1")
	if err != nil || !ok {
		t.Fatalf("Cursor 应命中: ok=%v err=%v", ok, err)
	}
	if !got.Equal(t2) {
		t.Fatalf("水位线不应回退: want %v got %v", t2, got)
	}
}

func TestQueue_FIFO(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	first, err := s.Enqueue(ctx, json.RawMessage(`{"reason":"one"}`))
	if err != nil {
		t.Fatalf("Enqueue 应成功: %v", err)
	}
	second, _ := s.Enqueue(ctx, json.RawMessage(`{"reason":"two"}`))

	if first.IdempotencyKey == "" || first.IdempotencyKey == second.IdempotencyKey {
		t.Fatal("每项入队都应分配独立幂等键")
	}

	items, err := s.ListQueue(ctx)
	if err != nil {
		t.Fatalf("ListQueue 应成功: %v", err)
	}
	if len(items) != 2 || items[0].Seq != first.Seq || items[1].Seq != second.Seq {
		t.Fatalf("队列应保持入队顺序: %+v", items)
	}

	// 仅确认后出队
	if err := s.Dequeue(ctx, first.Seq); err != nil {
		t.Fatalf("Dequeue 应成功: %v", err)
	}
	items, _ = s.ListQueue(ctx)
	if len(items) != 1 || items[0].Seq != second.Seq {
		t.Fatalf("出队后应只剩第二项: %+v", items)
	}
}
