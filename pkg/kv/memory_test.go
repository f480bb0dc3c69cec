package kv

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_SetGet(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	if _, err := s.Get(ctx, "missing"); err != ErrNotFound {
		t.Fatalf("读取不存在的键应返回 ErrNotFound, got %v", err)
	}

	if err := s.SetWithExpiry(ctx, "k", []byte("v"), time.Hour); err != nil {
		t.Fatalf("SetWithExpiry 应成功: %v", err)
	}

	got, err := s.Get(ctx, "k")
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if string(got) != "v" {
		t.Fatalf("Get 返回值错误: %q", got)
	}
}

func TestMemoryStore_SetNX(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	ok, err := s.SetNXWithExpiry(ctx, "k", []byte("first"), time.Hour)
	if err != nil || !ok {
		t.Fatalf("首次 SetNX 应生效: ok=%v err=%v", ok, err)
	}

	ok, err = s.SetNXWithExpiry(ctx, "k", []byte("second"), time.Hour)
	if err != nil {
		t.Fatalf("重复 SetNX 不应报错: %v", err)
	}
	if ok {
		t.Fatal("键已存在时 SetNX 不应生效")
	}

	got, _ := s.Get(ctx, "k")
	if string(got) != "first" {
		t.Fatalf("SetNX 不应覆盖已有值, got %q", got)
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	current := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	if err := s.SetWithExpiry(ctx, "k", []byte("v"), time.Minute); err != nil {
		t.Fatalf("SetWithExpiry 应成功: %v", err)
	}

	if _, err := s.Get(ctx, "k"); err != nil {
		t.Fatalf("过期前应能读取: %v", err)
	}

	current = current.Add(2 * time.Minute)
	if _, err := s.Get(ctx, "k"); err != ErrNotFound {
		t.Fatalf("过期后应返回 ErrNotFound, got %v", err)
	}

	// 过期后 SetNX 应重新生效
	ok, err := s.SetNXWithExpiry(ctx, "k", []byte("again"), time.Minute)
	if err != nil || !ok {
		t.Fatalf("过期键上的 SetNX 应生效: ok=%v err=%v", ok, err)
	}
}

func TestMemoryStore_Exists(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	exists, err := s.Exists(ctx, "k")
	if err != nil || exists {
		t.Fatalf("不存在的键 Exists 应为 false: exists=%v err=%v", exists, err)
	}

	s.SetWithExpiry(ctx, "k", []byte("v"), 0)
	exists, err = s.Exists(ctx, "k")
	if err != nil || !exists {
		t.Fatalf("已写入的键 Exists 应为 true: exists=%v err=%v", exists, err)
	}

	s.Del(ctx, "k")
	exists, _ = s.Exists(ctx, "k")
	if exists {
		t.Fatal("删除后 Exists 应为 false")
	}
}
