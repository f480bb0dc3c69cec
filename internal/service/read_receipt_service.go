package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"campus-portal/backend/config"
	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/repository"
	"campus-portal/backend/pkg/kv"
)

// ReadReceiptService 公告已读回执业务接口
type ReadReceiptService interface {
	// MarkAsRead 标记公告已读
	//
	// 重复标记不是错误：返回 Duplicated=true 且 ReadAt 为首次标记时间。
	// 主存储（Redis）不可用时降级到进程内存表，标记不失败。
	MarkAsRead(ctx context.Context, userID, announcementID string) (*dto.ReadReceiptResponse, error)
}

type readReceiptService struct {
	cfg      *config.Config
	repo     *repository.Repository
	primary  kv.Store
	fallback kv.Store
	logger   *zap.Logger
	now      func() time.Time
}

// NewReadReceiptService 创建 ReadReceiptService 实例
func NewReadReceiptService(
	cfg *config.Config,
	repo *repository.Repository,
	store kv.Store,
	logger *zap.Logger,
) ReadReceiptService {
	return &readReceiptService{
		cfg:      cfg,
		repo:     repo,
		primary:  store,
		fallback: kv.NewMemoryStore(),
		logger:   logger,
		now:      time.Now,
	}
}

// receiptRecord KV 中存储的回执负载
type receiptRecord struct {
	ReadAt time.Time `json:"readAt"`
}

func (s *readReceiptService) MarkAsRead(ctx context.Context, userID, announcementID string) (*dto.ReadReceiptResponse, error) {
	// 公告必须存在
	if _, err := s.repo.Announcement.GetByID(ctx, announcementID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAnnouncementNotFound
		}
		s.logger.Error("查询公告失败", zap.Error(err))
		return nil, err
	}

	key := readReceiptKey(userID, announcementID)
	readAt := s.now().UTC().Truncate(time.Second)

	resp, err := s.markIn(ctx, s.primary, key, readAt)
	if err == nil {
		return resp, nil
	}

	// 降级：进程内存表
	s.logger.Warn("已读回执主存储不可用，降级到内存表", zap.Error(err))
	return s.markIn(ctx, s.fallback, key, readAt)
}

// markIn 在指定存储上执行 insert-if-absent 标记
func (s *readReceiptService) markIn(ctx context.Context, store kv.Store, key string, readAt time.Time) (*dto.ReadReceiptResponse, error) {
	payload, err := json.Marshal(receiptRecord{ReadAt: readAt})
	if err != nil {
		return nil, err
	}

	// 竞争中键恰好过期时重试一轮
	for i := 0; i < 2; i++ {
		ok, err := store.SetNXWithExpiry(ctx, key, payload, s.cfg.Sync.ReadReceiptTTL)
		if err != nil {
			return nil, err
		}
		if ok {
			return &dto.ReadReceiptResponse{ReadAt: readAt, Duplicated: false}, nil
		}

		raw, err := store.Get(ctx, key)
		if err == nil {
			var rec receiptRecord
			if json.Unmarshal(raw, &rec) == nil && !rec.ReadAt.IsZero() {
				return &dto.ReadReceiptResponse{ReadAt: rec.ReadAt, Duplicated: true}, nil
			}
			return &dto.ReadReceiptResponse{ReadAt: readAt, Duplicated: true}, nil
		}
		if !errors.Is(err, kv.ErrNotFound) {
			return nil, err
		}
	}

	return &dto.ReadReceiptResponse{ReadAt: readAt, Duplicated: false}, nil
}

func readReceiptKey(userID, announcementID string) string {
	return "ann:read:u:" + userID + ":" + announcementID
}
