package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound 键不存在
var ErrNotFound = errors.New("kv: key not found")

// Store 带 TTL 的 KV 存储抽象
//
// 幂等缓存、公告已读回执与用户资料缓存都建立在该接口之上。
// 提供两种实现：Redis（持久、跨实例）与进程内内存表（降级用）。
type Store interface {
	// Get 读取键值，键不存在时返回 ErrNotFound
	Get(ctx context.Context, key string) ([]byte, error)
	// SetWithExpiry 写入键值并设置过期时间
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// SetNXWithExpiry 仅当键不存在时写入（原子 insert-if-absent）
	// 返回 true 表示本次写入生效，false 表示键已存在
	SetNXWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) (bool, error)
	// Del 删除键
	Del(ctx context.Context, key string) error
	// Exists 判断键是否存在
	Exists(ctx context.Context, key string) (bool, error)
}
