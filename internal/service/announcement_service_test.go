package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"campus-portal/backend/config"
	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
)

func announcementTestConfig() *config.Config {
	return &config.Config{
		Attach: config.AttachConfig{
			BaseURL:    "https://files.example.com",
			SignSecret: "test-sign-secret-0123456789",
			URLTTL:     5 * time.Minute,
		},
	}
}

func announcementFixture() *repository.Repository {
	t1 := time.Date(2025, 8, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2025, 8, 25, 9, 0, 0, 0, time.UTC)
	return repoWith(func(r *repository.Repository) {
		r.Announcement = &mockAnnouncementRepo{items: []model.Announcement{
			{
				AnnouncementID: "a-1001",
				Title:          "开学通知",
				Attachments:    model.AttachmentList{{Key: "files/开学须知.pdf", Name: "开学须知.pdf"}},
				PublishedAt:    t1,
				UpdatedAt:      t1,
			},
			{AnnouncementID: "a-1002", Title: "停课公告", PublishedAt: t2, UpdatedAt: t2},
		}}
	})
}

func TestAnnouncements_SignedAttachmentURL(t *testing.T) {
	cfg := announcementTestConfig()
	svc := NewAnnouncementService(cfg, announcementFixture(), zap.NewNop()).(*announcementService)

	now := time.Date(2025, 8, 28, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	resp, err := svc.List(context.Background(), nil)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}

	var att *struct {
		signedURL string
		expiresAt time.Time
	}
	for _, item := range resp.Items {
		if item.ID == "a-1001" {
			if len(item.Attachments) != 1 {
				t.Fatalf("a-1001 应有 1 个附件, got %d", len(item.Attachments))
			}
			att = &struct {
				signedURL string
				expiresAt time.Time
			}{item.Attachments[0].SignedURL, item.Attachments[0].ExpiresAt}
		}
	}
	if att == nil {
		t.Fatal("未找到公告 a-1001")
	}

	wantExp := now.Add(cfg.Attach.URLTTL)
	if !att.expiresAt.Equal(wantExp) {
		t.Fatalf("expiresAt 应为 now+TTL %v, got %v", wantExp, att.expiresAt)
	}

	// 重新计算签名并核对 URL
	key := "files/开学须知.pdf"
	mac := hmac.New(sha256.New, []byte(cfg.Attach.SignSecret))
	fmt.Fprintf(mac, "%s:%d", key, wantExp.Unix())
	wantSig := hex.EncodeToString(mac.Sum(nil))

	wantURL := fmt.Sprintf("https://files.example.com/attachments/%s?exp=%d&sig=%s",
		url.PathEscape(key), wantExp.Unix(), wantSig)
	if att.signedURL != wantURL {
		t.Fatalf("签名 URL 不符:\nwant %s\ngot  %s", wantURL, att.signedURL)
	}
	if !strings.Contains(att.signedURL, "sig=") {
		t.Fatal("签名 URL 应包含 sig 参数")
	}
}

func TestAnnouncements_SinceFilters(t *testing.T) {
	svc := NewAnnouncementService(announcementTestConfig(), announcementFixture(), zap.NewNop())

	since := time.Date(2025, 8, 10, 0, 0, 0, 0, time.UTC)
	resp, err := svc.List(context.Background(), &since)
	if err != nil {
		t.Fatalf("List 应成功: %v", err)
	}
	if len(resp.Items) != 1 || resp.Items[0].ID != "a-1002" {
		t.Fatalf("since 过滤后应只剩 a-1002, got %+v", resp.Items)
	}
}
