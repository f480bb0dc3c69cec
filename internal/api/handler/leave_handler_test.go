package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"campus-portal/backend/config"
	"campus-portal/backend/internal/service"
	"campus-portal/backend/pkg/kv"
)

func newLeaveRouter(mock *mockLeaveService) *gin.Engine {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Sync: config.SyncConfig{IdempotencyTTL: time.Hour}}
	idemSvc := service.NewIdempotencyService(cfg, kv.NewMemoryStore(), zap.NewNop())

	r := gin.New()
	h := NewLeaveHandler(mock, idemSvc)

	// 模拟 JWT 中间件注入的用户信息
	authed := func(c *gin.Context) {
		c.Set("user_id", "u-1")
		c.Set("student_id", "S2025001")
		c.Next()
	}
	r.POST("/api/v1/leave-requests", authed, h.Create)
	return r
}

func leaveBody() []byte {
	body, _ := json.Marshal(map[string]any{
		"dateRange": map[string]string{
			"start": "2025-09-01T00:00:00Z",
			"end":   "2025-09-03T00:00:00Z",
		},
		"reason": "家中有事",
	})
	return body
}

func postLeave(r *gin.Engine, idemKey string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leave-requests", bytes.NewReader(leaveBody()))
	req.Header.Set("Content-Type", "application/json")
	if idemKey != "" {
		req.Header.Set("Idempotency-Key", idemKey)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestLeaveHandler_Create(t *testing.T) {
	mock := &mockLeaveService{}
	r := newLeaveRouter(mock)

	w := postLeave(r, "")
	if w.Code != http.StatusCreated {
		t.Fatalf("创建应返回 201, got %d body=%s", w.Code, w.Body.String())
	}

	var env struct {
		Success bool `json:"success"`
		Data    struct {
			Item struct {
				ID     string `json:"id"`
				Status string `json:"status"`
			} `json:"item"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("解析响应失败: %v", err)
	}
	if !env.Success || env.Data.Item.ID != "req-1" || env.Data.Item.Status != "pending" {
		t.Fatalf("响应内容错误: %s", w.Body.String())
	}
}

func TestLeaveHandler_IdempotentReplay(t *testing.T) {
	mock := &mockLeaveService{}
	r := newLeaveRouter(mock)

	first := postLeave(r, "idem-abc")
	if first.Code != http.StatusCreated {
		t.Fatalf("首次提交应返回 201, got %d", first.Code)
	}

	second := postLeave(r, "idem-abc")
	if second.Code != http.StatusCreated {
		t.Fatalf("重放也应返回 201, got %d", second.Code)
	}

	// 重放返回首次快照的原文
	if !bytes.Equal(first.Body.Bytes(), second.Body.Bytes()) {
		t.Fatalf("重放响应应与首次逐字一致:\nfirst:  %s\nsecond: %s",
			first.Body.String(), second.Body.String())
	}

	// 只产生一次副作用
	if mock.createCalls != 1 {
		t.Fatalf("重复提交应只执行一次业务逻辑, got %d", mock.createCalls)
	}
}

func TestLeaveHandler_DifferentKeysAreIndependent(t *testing.T) {
	mock := &mockLeaveService{}
	r := newLeaveRouter(mock)

	postLeave(r, "idem-1")
	postLeave(r, "idem-2")

	if mock.createCalls != 2 {
		t.Fatalf("不同幂等键应各自执行, got %d", mock.createCalls)
	}
}

func TestLeaveHandler_ValidationError(t *testing.T) {
	mock := &mockLeaveService{err: service.ErrInvalidDateRange}
	r := newLeaveRouter(mock)

	w := postLeave(r, "idem-bad")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("非法区间应返回 400, got %d", w.Code)
	}

	// 失败的请求不应写入幂等缓存：换一个成功的 Service 重试同一键
	mock.err = nil
	w = postLeave(r, "idem-bad")
	if w.Code != http.StatusCreated {
		t.Fatalf("失败后用同一键重试应正常执行, got %d", w.Code)
	}
}
