package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/config"
	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
)

var ErrAnnouncementNotFound = errors.New("公告不存在")

// AnnouncementService 公告业务接口
type AnnouncementService interface {
	// List 查询公告；since 非 nil 时仅返回增量。
	// 附件在响应中携带短效 HMAC 签名下载地址。
	List(ctx context.Context, since *time.Time) (*dto.AnnouncementsResponse, error)
}

type announcementService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewAnnouncementService 创建 AnnouncementService 实例
func NewAnnouncementService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) AnnouncementService {
	return &announcementService{
		cfg:    cfg,
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func (s *announcementService) List(ctx context.Context, since *time.Time) (*dto.AnnouncementsResponse, error) {
	var (
		rows []model.Announcement
		err  error
	)
	if since == nil {
		rows, err = s.repo.Announcement.List(ctx)
	} else {
		rows, err = s.repo.Announcement.ListUpdatedSince(ctx, *since)
	}
	if err != nil {
		s.logger.Error("查询公告失败", zap.Error(err))
		return nil, err
	}

	expiresAt := s.now().Add(s.cfg.Attach.URLTTL).UTC().Truncate(time.Second)

	items := make([]dto.AnnouncementResponse, 0, len(rows))
	for i := range rows {
		a := &rows[i]
		atts := make([]dto.AttachmentResponse, 0, len(a.Attachments))
		for _, att := range a.Attachments {
			atts = append(atts, dto.AttachmentResponse{
				Key:       att.Key,
				Name:      att.Name,
				SignedURL: s.signAttachmentURL(att.Key, expiresAt),
				ExpiresAt: expiresAt,
			})
		}
		items = append(items, dto.AnnouncementResponse{
			ID:          a.AnnouncementID,
			Title:       a.Title,
			Body:        a.Body,
			Attachments: atts,
			PublishedAt: a.PublishedAt,
			UpdatedAt:   a.UpdatedAt,
		})
	}

	var echo *string
	if since != nil {
		v := since.UTC().Format(time.RFC3339)
		echo = &v
	}

	return &dto.AnnouncementsResponse{Items: items, Since: echo}, nil
}

// signAttachmentURL 生成短效签名下载地址
//
// 签名负载为 "<key>:<exp>"，HMAC-SHA256 后十六进制编码。
func (s *announcementService) signAttachmentURL(key string, expiresAt time.Time) string {
	exp := expiresAt.Unix()

	mac := hmac.New(sha256.New, []byte(s.cfg.Attach.SignSecret))
	fmt.Fprintf(mac, "%s:%d", key, exp)
	sig := hex.EncodeToString(mac.Sum(nil))

	return fmt.Sprintf("%s/attachments/%s?exp=%d&sig=%s",
		s.cfg.Attach.BaseURL, url.PathEscape(key), exp, sig)
}
