package types

import "time"

// UserInfo 是 /api/user-info 返回的用户信息，同时作为缓存内容
type UserInfo struct {
	ID            uint      `json:"id"`
	Username      string    `json:"username"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}
