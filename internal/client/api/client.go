// Package api 封装客户端对门户后端的 HTTP 访问，
// 统一解开 {success, message, data} 响应信封。
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"campus-portal/backend/internal/dto"
)

// Client 门户后端 HTTP 客户端
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New 创建客户端；token 为空时以匿名身份访问公开接口
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Authenticated 是否携带登录 token
func (c *Client) Authenticated() bool {
	return c.token != ""
}

// envelope 服务端统一响应结构
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  []string        `json:"errors"`
}

// APIError 服务端返回的业务错误
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("服务端错误 (%d): %s", e.StatusCode, e.Message)
}

// do 执行请求并解开响应信封
func (c *Client) do(ctx context.Context, method, path string, query url.Values, headers map[string]string, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("请求 %s %s 失败: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("解析响应失败: %w", err)
	}

	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("解析 data 失败: %w", err)
		}
	}
	return nil
}

// sinceQuery 组装 since 查询参数
func sinceQuery(q url.Values, since *time.Time) url.Values {
	if since != nil {
		q.Set("since", since.UTC().Format(time.RFC3339))
	}
	return q
}

// Schedule 拉取某学期课表（增量）
func (c *Client) Schedule(ctx context.Context, term string, since *time.Time) (*dto.ScheduleResponse, error) {
	q := sinceQuery(url.Values{"term": {term}}, since)
	var out dto.ScheduleResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/schedule", q, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Announcements 拉取公告（增量）
func (c *Client) Announcements(ctx context.Context, since *time.Time) (*dto.AnnouncementsResponse, error) {
	q := sinceQuery(url.Values{}, since)
	var out dto.AnnouncementsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/announcements", q, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Events 拉取当前学期行事历（增量）
func (c *Client) Events(ctx context.Context, since *time.Time) (*dto.EventsResponse, error) {
	q := sinceQuery(url.Values{"term": {"current"}}, since)
	var out dto.EventsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/events", q, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Transcripts 拉取多学期成绩单（增量，需登录）
func (c *Client) Transcripts(ctx context.Context, terms string, since *time.Time) (*dto.TranscriptsResponse, error) {
	q := sinceQuery(url.Values{"terms": {terms}}, since)
	var out dto.TranscriptsResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/me/transcripts", q, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Attendance 拉取某学期考勤（增量，需登录）
func (c *Client) Attendance(ctx context.Context, term string, since *time.Time) (*dto.AttendanceResponse, error) {
	q := sinceQuery(url.Values{"term": {term}}, since)
	var out dto.AttendanceResponse
	if err := c.do(ctx, http.MethodGet, "/api/v1/attendance", q, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateLeave 提交请假单，携带持久化的幂等键。
// 服务端对重复的幂等键重放首次响应，因此重试永远安全。
func (c *Client) CreateLeave(ctx context.Context, idempotencyKey string, payload json.RawMessage) (*dto.LeaveItemResponse, error) {
	headers := map[string]string{"Idempotency-Key": idempotencyKey}

	var raw json.RawMessage = payload
	var out dto.LeaveItemResponse
	if err := c.do(ctx, http.MethodPost, "/api/v1/leave-requests", nil, headers, raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MarkAnnouncementRead 标记公告已读（需登录）
func (c *Client) MarkAnnouncementRead(ctx context.Context, announcementID string) (*dto.ReadReceiptResponse, error) {
	var out dto.ReadReceiptResponse
	path := "/api/v1/announcements/" + url.PathEscape(announcementID) + "/read"
	if err := c.do(ctx, http.MethodPost, path, nil, nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
