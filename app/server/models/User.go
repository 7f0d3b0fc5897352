package models

import (
	"account-portal/app/server/constants"
	"time"
)

type User struct {
	ID uint `gorm:"column:id;primaryKey"`

	// 基础信息
	Username string `gorm:"column:username;uniqueIndex;not null"` // 用户名，全局唯一
	Email    string `gorm:"column:email;uniqueIndex;not null"`    // 电子邮箱，全局唯一，总是以小写储存
	Role     string `gorm:"column:role;default:regular"`          // 身份：regular 或 admin

	// 登录与认证相关
	PasswordHash  string `gorm:"column:password_hash;not null"` // 密码，使用 argon2id 储存
	EmailVerified bool   `gorm:"column:email_verified;default:false"`

	// 一次性令牌，使用后清空
	VerificationToken        *string    `gorm:"column:verification_token;index"`
	VerificationTokenExpires *time.Time `gorm:"column:verification_token_expires"`
	ResetToken               *string    `gorm:"column:reset_token;index"`
	ResetTokenExpires        *time.Time `gorm:"column:reset_token_expires"`

	// 个人资料
	Birthday   *string `gorm:"column:birthday;size:10"` // YYYY-MM-DD
	Phone      *string `gorm:"column:phone"`
	Address    *string `gorm:"column:address"`
	WorkRegion *string `gorm:"column:work_region"`

	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == constants.RoleAdmin
}
