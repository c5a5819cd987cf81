package model

import (
	"time"

	"github.com/d60-Lab/microblog/pkg/gravatar"
)

// 字段长度上限（与校验逻辑共用）
const (
	MaxNameLen    = 50
	MaxContentLen = 140
)

// User 用户（Email 小写存储且唯一；Admin 为管理员标记）
type User struct {
	ID           string `gorm:"primaryKey;type:varchar(36)"`
	Name         string `gorm:"type:varchar(50);not null"`
	Email        string `gorm:"type:varchar(255);uniqueIndex:ux_user_email;not null"`
	PasswordHash string `gorm:"type:varchar(255);not null"`
	Admin        bool   `gorm:"not null;default:false"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (User) TableName() string { return "users" }

// GravatarURL 根据邮箱生成头像地址
func (u *User) GravatarURL(size int) string {
	return gravatar.URL(u.Email, size)
}
