package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	webpush "github.com/SherClockHolmes/webpush-go"
	"go.uber.org/zap"

	"campus-portal/backend/config"
	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
)

var (
	ErrPushDisabled        = errors.New("Web Push 未配置 VAPID 密钥")
	ErrInvalidSubscription = errors.New("订阅对象缺少 endpoint 或密钥")
)

// PushService Web Push 业务接口
type PushService interface {
	VAPIDPublicKey() (string, error)
	// Subscribe 保存订阅；同 endpoint 重复订阅覆盖更新
	Subscribe(ctx context.Context, userID *string, req *dto.SubscribeRequest, userAgent string) error
	Unsubscribe(ctx context.Context, endpoint string) error
	SendToAll(ctx context.Context, req *dto.PushMessageRequest) (*dto.PushSendResult, error)
	SendToUser(ctx context.Context, userID string, req *dto.PushMessageRequest) (*dto.PushSendResult, error)
	Stats(ctx context.Context) (*dto.PushStatsResponse, error)
}

type pushService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewPushService 创建 PushService 实例
func NewPushService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) PushService {
	return &pushService{cfg: cfg, repo: repo, logger: logger}
}

func (s *pushService) enabled() bool {
	return s.cfg.Push.VAPIDPublicKey != "" && s.cfg.Push.VAPIDPrivateKey != ""
}

func (s *pushService) VAPIDPublicKey() (string, error) {
	if !s.enabled() {
		return "", ErrPushDisabled
	}
	return s.cfg.Push.VAPIDPublicKey, nil
}

func (s *pushService) Subscribe(ctx context.Context, userID *string, req *dto.SubscribeRequest, userAgent string) error {
	payload := req.Normalize()
	if payload == nil {
		return ErrInvalidSubscription
	}

	sub := &model.PushSubscription{
		UserID:   userID,
		Endpoint: payload.Endpoint,
		P256dh:   payload.Keys.P256dh,
		Auth:     payload.Keys.Auth,
	}
	if userAgent != "" {
		sub.UserAgent = &userAgent
	}

	if err := s.repo.Push.Upsert(ctx, sub); err != nil {
		s.logger.Error("保存订阅失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *pushService) Unsubscribe(ctx context.Context, endpoint string) error {
	if err := s.repo.Push.DeleteByEndpoint(ctx, endpoint); err != nil {
		s.logger.Error("删除订阅失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *pushService) SendToAll(ctx context.Context, req *dto.PushMessageRequest) (*dto.PushSendResult, error) {
	if !s.enabled() {
		return nil, ErrPushDisabled
	}
	subs, err := s.repo.Push.ListAll(ctx)
	if err != nil {
		s.logger.Error("查询订阅失败", zap.Error(err))
		return nil, err
	}
	return s.send(ctx, subs, req), nil
}

func (s *pushService) SendToUser(ctx context.Context, userID string, req *dto.PushMessageRequest) (*dto.PushSendResult, error) {
	if !s.enabled() {
		return nil, ErrPushDisabled
	}
	subs, err := s.repo.Push.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error("查询订阅失败", zap.Error(err))
		return nil, err
	}
	return s.send(ctx, subs, req), nil
}

func (s *pushService) Stats(ctx context.Context) (*dto.PushStatsResponse, error) {
	total, withUser, err := s.repo.Push.Count(ctx)
	if err != nil {
		s.logger.Error("统计订阅失败", zap.Error(err))
		return nil, err
	}
	return &dto.PushStatsResponse{Total: total, WithUser: withUser}, nil
}

// send 逐订阅推送；endpoint 失效（404/410）时顺手清除
func (s *pushService) send(ctx context.Context, subs []model.PushSubscription, req *dto.PushMessageRequest) *dto.PushSendResult {
	body, _ := json.Marshal(map[string]string{
		"title": req.Title,
		"body":  req.Body,
	})

	opts := &webpush.Options{
		Subscriber:      s.cfg.Push.Subscriber,
		VAPIDPublicKey:  s.cfg.Push.VAPIDPublicKey,
		VAPIDPrivateKey: s.cfg.Push.VAPIDPrivateKey,
		TTL:             60,
	}

	result := &dto.PushSendResult{}
	for i := range subs {
		sub := &subs[i]
		resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys: webpush.Keys{
				P256dh: sub.P256dh,
				Auth:   sub.Auth,
			},
		}, opts)
		if err != nil {
			s.logger.Warn("推送失败", zap.String("endpoint", sub.Endpoint), zap.Error(err))
			result.Failed++
			continue
		}
		switch resp.StatusCode {
		case http.StatusNotFound, http.StatusGone:
			// 订阅已失效
			if err := s.repo.Push.DeleteByEndpoint(ctx, sub.Endpoint); err != nil {
				s.logger.Warn("清除失效订阅失败", zap.Error(err))
			}
			result.Removed++
			result.Failed++
		default:
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				result.Sent++
			} else {
				s.logger.Warn("推送被拒绝",
					zap.String("endpoint", sub.Endpoint),
					zap.Int("status", resp.StatusCode))
				result.Failed++
			}
		}
		resp.Body.Close()
	}
	return result
}
