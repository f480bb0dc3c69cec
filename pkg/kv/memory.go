package kv

import (
	"context"
	"sync"
	"time"
)

// MemoryStore 进程内 KV 存储（Store 的降级实现）
//
// Redis 不可用时由它兜底：数据仅在进程生命周期内有效，
// 重启后去重/缓存信息丢失，属于可接受的降级行为。
// 过期采用读取时惰性删除，不另起清理协程。
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time // 测试注入
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // 零值表示永不过期
}

// NewMemoryStore 创建内存 KV 存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) expired(e memoryEntry) bool {
	return !e.expiresAt.IsZero() && s.now().After(e.expiresAt)
}

// Get 读取键值，不存在或已过期返回 ErrNotFound
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrNotFound
	}
	if s.expired(e) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return nil, ErrNotFound
	}

	// 返回副本，避免调用方篡改内部状态
	out := make([]byte, len(e.value))
	copy(out, e.value)
	return out, nil
}

// SetWithExpiry 写入键值并设置过期时间
func (s *MemoryStore) SetWithExpiry(_ context.Context, key string, value []byte, ttl time.Duration) error {
	v := make([]byte, len(value))
	copy(v, value)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{value: v, expiresAt: expiresAt}
	s.mu.Unlock()
	return nil
}

// SetNXWithExpiry 仅当键不存在时写入
func (s *MemoryStore) SetNXWithExpiry(_ context.Context, key string, value []byte, ttl time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && !s.expired(e) {
		return false, nil
	}

	v := make([]byte, len(value))
	copy(v, value)

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = s.now().Add(ttl)
	}
	s.entries[key] = memoryEntry{value: v, expiresAt: expiresAt}
	return true, nil
}

// Del 删除键
func (s *MemoryStore) Del(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Exists 判断键是否存在
func (s *MemoryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.Get(ctx, key)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
