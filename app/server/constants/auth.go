package constants

import "time"

// 令牌有效期
const (
	AuthTokenDuration         = 24 * time.Hour // API 用的 JWT
	ResetTokenDuration        = 1 * time.Hour  // 重设密码链接
	VerificationTokenDuration = 24 * time.Hour // 邮箱验证链接，与邮件正文中承诺的一致
)

const (
	PasswordMinLength = 6
)

// 会话字段
const (
	SessionName        = "session"
	SessionKeyUserID   = "user_id"
	SessionKeyUsername = "username"
	SessionKeyRole     = "role"
)
