package account

import (
	"account-portal/app/server/constants"
	"account-portal/app/server/models"
	"account-portal/app/server/store"
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"strings"
)

// ForgotPassword 对存在的邮箱生成重设 token 并寄出；
// 邮箱不存在或寄送失败时结果相同，避免泄露帐号是否存在
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	email = normalizeEmail(email)
	if email == "" {
		return invalid("請輸入電子信箱")
	}

	user, err := s.st.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("find user by email: %w", err)
	}

	token, expires, err := s.issueToken(constants.ResetTokenDuration)
	if err != nil {
		return err
	}
	if err = s.st.Update(ctx, user.ID, map[string]interface{}{
		"reset_token":         token,
		"reset_token_expires": expires,
	}); err != nil {
		return fmt.Errorf("store reset token: %w", err)
	}

	link := s.link(ctx, "/reset-password", token)
	if err = s.notifier.SendPasswordReset(ctx, user.Email, user.Username, link); err != nil {
		s.l.Warn("failed to send password reset mail", zap.Uint("id", user.ID), zap.Error(err))
	}
	return nil
}

// CheckResetToken 检查重设 token 是否存在且未过期
func (s *Service) CheckResetToken(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)

	user, err := s.st.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalidToken("無效的重設密碼連結")
		}
		return nil, fmt.Errorf("find reset token: %w", err)
	}

	if user.ResetTokenExpires == nil || !s.now().Before(*user.ResetTokenExpires) {
		return nil, expiredToken("重設密碼連結已過期，請重新申請")
	}
	return user, nil
}

// ResetPassword 设置新密码并清除 token ，同一个 token 只能用一次
func (s *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	user, err := s.CheckResetToken(ctx, in.Token)
	if err != nil {
		return err
	}
	if err = in.Validate(); err != nil {
		return err
	}

	digest, err := s.hash(in.Password)
	if err != nil {
		return err
	}
	// 并发的请求中只有一个能消费同一个 token
	if err = s.st.ConsumeResetToken(ctx, user.ID, strings.TrimSpace(in.Token), s.now(), map[string]interface{}{
		"password_hash": digest,
	}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalidToken("無效的重設密碼連結")
		}
		return fmt.Errorf("reset password: %w", err)
	}

	s.l.Info("password reset", zap.Uint("id", user.ID))
	return nil
}
