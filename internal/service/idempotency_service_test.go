package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/config"
	"campus-portal/backend/pkg/kv"
)

func newIdemSvc() IdempotencyService {
	cfg := &config.Config{Sync: config.SyncConfig{IdempotencyTTL: time.Hour}}
	return NewIdempotencyService(cfg, kv.NewMemoryStore(), zap.NewNop())
}

func TestIdempotency_LookupMiss(t *testing.T) {
	svc := newIdemSvc()

	stored, err := svc.Lookup(context.Background(), "key-1")
	if err != nil {
		t.Fatalf("未命中不应报错: %v", err)
	}
	if stored != nil {
		t.Fatalf("未命中应返回 nil, got %+v", stored)
	}
}

func TestIdempotency_StoreThenLookup(t *testing.T) {
	ctx := context.Background()
	svc := newIdemSvc()

	payload := map[string]string{"id": "req-1", "status": "pending"}
	svc.Store(ctx, "key-1", 201, payload)

	stored, err := svc.Lookup(ctx, "key-1")
	if err != nil {
		t.Fatalf("Lookup 应成功: %v", err)
	}
	if stored == nil {
		t.Fatal("应命中缓存")
	}
	if stored.StatusCode != 201 {
		t.Fatalf("状态码应为 201, got %d", stored.StatusCode)
	}

	var got map[string]string
	if err := json.Unmarshal(stored.Payload, &got); err != nil {
		t.Fatalf("解析快照失败: %v", err)
	}
	if got["id"] != "req-1" {
		t.Fatalf("快照内容错误: %+v", got)
	}
}

func TestIdempotency_FirstSnapshotWins(t *testing.T) {
	ctx := context.Background()
	svc := newIdemSvc()

	svc.Store(ctx, "key-1", 201, map[string]string{"id": "first"})
	// 并发重复执行产生的第二份快照不应覆盖第一份
	svc.Store(ctx, "key-1", 201, map[string]string{"id": "second"})

	stored, err := svc.Lookup(ctx, "key-1")
	if err != nil || stored == nil {
		t.Fatalf("Lookup 应命中: %v", err)
	}

	var got map[string]string
	json.Unmarshal(stored.Payload, &got)
	if got["id"] != "first" {
		t.Fatalf("应保留首份快照, got %+v", got)
	}
}
