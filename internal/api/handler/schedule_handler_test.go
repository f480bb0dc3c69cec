package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func newScheduleRouter(mock *mockScheduleService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewScheduleHandler(mock)
	r.GET("/api/v1/schedule", h.GetSchedule)
	return r
}

func TestScheduleHandler_MissingTerm(t *testing.T) {
	r := newScheduleRouter(&mockScheduleService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("缺 term 应返回 400, got %d", w.Code)
	}

	var env map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("响应应为合法 JSON: %v", err)
	}
	if env["success"] != false {
		t.Fatalf("错误响应 success 应为 false: %v", env)
	}
}

func TestScheduleHandler_ValidSincePassedThrough(t *testing.T) {
	mock := &mockScheduleService{}
	r := newScheduleRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/schedule?term=2025-1&since=2025-08-01T00:00:00Z", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("应返回 200, got %d", w.Code)
	}
	if mock.gotTerm != "2025-1" {
		t.Fatalf("term 透传错误: %s", mock.gotTerm)
	}
	if mock.gotSince == nil {
		t.Fatal("合法 since 应透传到 Service")
	}
	want := time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC)
	if !mock.gotSince.Equal(want) {
		t.Fatalf("since 解析错误: want %v got %v", want, *mock.gotSince)
	}
}

func TestScheduleHandler_MalformedSinceTreatedAsAbsent(t *testing.T) {
	mock := &mockScheduleService{}
	r := newScheduleRouter(mock)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/api/v1/schedule?term=2025-1&since=not-a-date", nil)
	r.ServeHTTP(w, req)

	// 无法解析的 since 视为未提供：按全量返回，而不是报错
	if w.Code != http.StatusOK {
		t.Fatalf("畸形 since 不应报错, got %d", w.Code)
	}
	if mock.gotSince != nil {
		t.Fatalf("畸形 since 应按未提供处理, got %v", *mock.gotSince)
	}
}
