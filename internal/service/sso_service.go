package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
	"gorm.io/gorm"

	"campus-portal/backend/config"
	"campus-portal/backend/internal/dto"
	"campus-portal/backend/internal/model"
	"campus-portal/backend/internal/repository"
	"campus-portal/backend/pkg/jwt"
	"campus-portal/backend/pkg/kv"
)

var (
	ErrSSODisabled     = errors.New("SSO 未配置")
	ErrInvalidSSOState = errors.New("state 无效或已过期")
)

const (
	ssoStatePrefix = "sso:state:"
	ssoStateTTL    = 10 * time.Minute

	graphMeURL = "https://graph.microsoft.com/v1.0/me"
)

// SSOService Microsoft 单点登录业务接口
type SSOService interface {
	Enabled() bool
	// AuthorizeURL 生成授权跳转地址，state 存入 KV 防 CSRF
	AuthorizeURL(ctx context.Context) (string, error)
	// Callback 校验 state、交换授权码并建档登录
	Callback(ctx context.Context, state, code string) (*dto.TokenResponse, error)
}

type ssoService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	store  kv.Store
	logger *zap.Logger
	oauth  *oauth2.Config
}

// NewSSOService 创建 SSOService 实例
func NewSSOService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	store kv.Store,
	logger *zap.Logger,
) SSOService {
	return &ssoService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		store:  store,
		logger: logger,
		oauth: &oauth2.Config{
			ClientID:     cfg.OAuth.ClientID,
			ClientSecret: cfg.OAuth.ClientSecret,
			RedirectURL:  cfg.OAuth.RedirectURL,
			Endpoint:     microsoft.AzureADEndpoint(cfg.OAuth.TenantID),
			Scopes:       []string{"openid", "profile", "email", "User.Read"},
		},
	}
}

func (s *ssoService) Enabled() bool {
	return s.cfg.OAuth.Enabled()
}

func (s *ssoService) AuthorizeURL(ctx context.Context) (string, error) {
	if !s.Enabled() {
		return "", ErrSSODisabled
	}

	state := uuid.New().String()
	if err := s.store.SetWithExpiry(ctx, ssoStatePrefix+state, []byte("1"), ssoStateTTL); err != nil {
		s.logger.Error("写入 SSO state 失败", zap.Error(err))
		return "", err
	}

	return s.oauth.AuthCodeURL(state), nil
}

// graphProfile Microsoft Graph /me 响应的关键字段
type graphProfile struct {
	ID                string `json:"id"`
	DisplayName       string `json:"displayName"`
	Mail              string `json:"mail"`
	UserPrincipalName string `json:"userPrincipalName"`
}

func (s *ssoService) Callback(ctx context.Context, state, code string) (*dto.TokenResponse, error) {
	if !s.Enabled() {
		return nil, ErrSSODisabled
	}

	// 1. state 一次性校验
	if _, err := s.store.Get(ctx, ssoStatePrefix+state); err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return nil, ErrInvalidSSOState
		}
		s.logger.Error("读取 SSO state 失败", zap.Error(err))
		return nil, err
	}
	if err := s.store.Del(ctx, ssoStatePrefix+state); err != nil {
		s.logger.Warn("删除 SSO state 失败", zap.Error(err))
	}

	// 2. 交换授权码
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("交换授权码失败", zap.Error(err))
		return nil, fmt.Errorf("SSO 授权码交换失败: %w", err)
	}

	// 3. 拉取 Graph 用户信息
	profile, err := s.fetchProfile(ctx, token)
	if err != nil {
		return nil, err
	}

	email := profile.Mail
	if email == "" {
		email = profile.UserPrincipalName
	}
	if email == "" {
		return nil, fmt.Errorf("SSO 用户信息缺少邮箱")
	}

	// 4. 按邮箱建档或更新
	user, err := s.upsertUser(ctx, email, profile.DisplayName)
	if err != nil {
		return nil, err
	}

	// 5. 签发本地 Token
	jwtToken, err := s.jwtMgr.GenerateToken(user.UserID, user.StudentID, user.Role, user.Provider)
	if err != nil {
		s.logger.Error("生成 Token 失败", zap.Error(err))
		return nil, err
	}

	return &dto.TokenResponse{
		User:      dto.NewUserResponse(user),
		Token:     jwtToken,
		ExpiresIn: int(s.jwtMgr.AccessTokenTTL().Seconds()),
	}, nil
}

func (s *ssoService) fetchProfile(ctx context.Context, token *oauth2.Token) (*graphProfile, error) {
	client := s.oauth.Client(ctx, token)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, graphMeURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := client.Do(req)
	if err != nil {
		s.logger.Error("请求 Graph API 失败", zap.Error(err))
		return nil, fmt.Errorf("请求 Graph API 失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Graph API 响应异常: %d", resp.StatusCode)
	}

	var profile graphProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("解析 Graph 用户信息失败: %w", err)
	}
	return &profile, nil
}

func (s *ssoService) upsertUser(ctx context.Context, email, displayName string) (*model.User, error) {
	existing, err := s.repo.User.GetByEmail(ctx, email)
	if err == nil {
		changed := false
		if existing.Provider != "microsoft" {
			existing.Provider = "microsoft"
			changed = true
		}
		if displayName != "" && existing.DisplayName != displayName {
			existing.DisplayName = displayName
			changed = true
		}
		if changed {
			if err := s.repo.User.Update(ctx, existing); err != nil {
				s.logger.Error("更新 SSO 用户失败", zap.Error(err))
				return nil, err
			}
		}
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询 SSO 用户失败", zap.Error(err))
		return nil, err
	}

	// 新用户：学号缺省取邮箱本地部分
	studentID := email
	if i := strings.IndexByte(email, '@'); i > 0 {
		studentID = strings.ToUpper(email[:i])
	}
	if displayName == "" {
		displayName = studentID
	}

	user := &model.User{
		StudentID:   studentID,
		Email:       email,
		DisplayName: displayName,
		Provider:    "microsoft",
		Role:        "student",
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		s.logger.Error("创建 SSO 用户失败", zap.Error(err))
		return nil, err
	}
	return user, nil
}
