package models

import "time"

// Token 预留给 API 令牌持久化，目前只建表
type Token struct {
	ID        uint      `gorm:"column:id;primaryKey"`
	UserID    uint      `gorm:"column:user_id;not null;index"`
	User      User      `gorm:"constraint:OnDelete:CASCADE"`
	Token     string    `gorm:"column:token;uniqueIndex;not null"`
	ExpiresAt time.Time `gorm:"column:expires_at;not null"`
	CreatedAt time.Time `gorm:"column:created_at"`
}
