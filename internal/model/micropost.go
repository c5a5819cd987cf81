package model

import "time"

// Micropost 短文（内容 1..140 字符，创建后不可修改）
type Micropost struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `gorm:"type:varchar(36);index:idx_micropost_user_created;not null"`
	Content   string    `gorm:"type:varchar(140);not null"`
	CreatedAt time.Time `gorm:"index:idx_micropost_user_created;index:idx_micropost_created"`
}

func (Micropost) TableName() string { return "microposts" }
