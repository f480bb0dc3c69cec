package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/config"
	"campus-portal/backend/pkg/kv"
)

// idemPrefix 幂等响应缓存键前缀
const idemPrefix = "idem:"

// StoredResponse 幂等缓存中的完整响应快照
//
// 重放时按快照原样返回，状态码与 body 与首次执行完全一致。
type StoredResponse struct {
	StatusCode int             `json:"statusCode"`
	Payload    json.RawMessage `json:"payload"`
}

// IdempotencyService 写操作幂等缓存业务接口
type IdempotencyService interface {
	// Lookup 按幂等键查询已缓存的响应；未命中返回 (nil, nil)
	Lookup(ctx context.Context, key string) (*StoredResponse, error)
	// Store 缓存首次执行的响应快照
	//
	// 采用 insert-if-absent 写入：并发重复请求只有一份快照生效。
	// 写入失败仅记录告警，不影响本次请求结果。
	Store(ctx context.Context, key string, statusCode int, payload any)
}

type idempotencyService struct {
	store  kv.Store
	ttl    time.Duration
	logger *zap.Logger
}

// NewIdempotencyService 创建 IdempotencyService 实例
func NewIdempotencyService(cfg *config.Config, store kv.Store, logger *zap.Logger) IdempotencyService {
	return &idempotencyService{
		store:  store,
		ttl:    cfg.Sync.IdempotencyTTL,
		logger: logger,
	}
}

func (s *idempotencyService) Lookup(ctx context.Context, key string) (*StoredResponse, error) {
	raw, err := s.store.Get(ctx, idemPrefix+key)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, nil
		}
		s.logger.Error("读取幂等缓存失败", zap.String("key", key), zap.Error(err))
		return nil, err
	}

	var stored StoredResponse
	if err := json.Unmarshal(raw, &stored); err != nil {
		s.logger.Warn("幂等缓存内容损坏，按未命中处理", zap.String("key", key), zap.Error(err))
		return nil, nil
	}
	return &stored, nil
}

func (s *idempotencyService) Store(ctx context.Context, key string, statusCode int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		s.logger.Warn("序列化幂等响应失败", zap.String("key", key), zap.Error(err))
		return
	}

	raw, err := json.Marshal(StoredResponse{StatusCode: statusCode, Payload: body})
	if err != nil {
		s.logger.Warn("序列化幂等快照失败", zap.String("key", key), zap.Error(err))
		return
	}

	if _, err := s.store.SetNXWithExpiry(ctx, idemPrefix+key, raw, s.ttl); err != nil {
		s.logger.Warn("写入幂等缓存失败", zap.String("key", key), zap.Error(err))
	}
}
