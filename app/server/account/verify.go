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

// VerifyEmail 消费验证 token ；已验证过的用户返回 ErrAlreadyVerified
func (s *Service) VerifyEmail(ctx context.Context, token string) (*models.User, error) {
	token = strings.TrimSpace(token)

	user, err := s.st.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalidToken("無效的驗證連結")
		}
		return nil, fmt.Errorf("find verification token: %w", err)
	}

	if user.EmailVerified {
		// 已验证的用户不再需要这个 token
		if err = s.st.Update(ctx, user.ID, map[string]interface{}{
			"verification_token":         nil,
			"verification_token_expires": nil,
		}); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return nil, invalidToken("無效的驗證連結")
			}
			return nil, fmt.Errorf("clear verification token: %w", err)
		}
		user.VerificationToken = nil
		user.VerificationTokenExpires = nil
		return user, ErrAlreadyVerified
	}
	if user.VerificationTokenExpires != nil && s.now().After(*user.VerificationTokenExpires) {
		return nil, expiredToken("驗證連結已過期，請登入後重新寄送驗證信")
	}

	if err = s.st.ConsumeVerificationToken(ctx, user.ID, token, s.now(), map[string]interface{}{
		"email_verified": true,
	}); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, invalidToken("無效的驗證連結")
		}
		return nil, fmt.Errorf("mark email verified: %w", err)
	}

	user.EmailVerified = true
	user.VerificationToken = nil
	user.VerificationTokenExpires = nil

	s.l.Info("email verified", zap.Uint("id", user.ID))

	return user, nil
}

// ResendVerification 重新生成验证 token 并寄出，旧的 token 随即失效
func (s *Service) ResendVerification(ctx context.Context, userID uint) (Delivery, error) {
	user, err := s.Profile(ctx, userID)
	if err != nil {
		return Delivery{}, err
	}
	if user.EmailVerified {
		return Delivery{}, ErrAlreadyVerified
	}

	token, expires, err := s.issueToken(constants.VerificationTokenDuration)
	if err != nil {
		return Delivery{}, err
	}
	if err = s.st.Update(ctx, user.ID, map[string]interface{}{
		"verification_token":         token,
		"verification_token_expires": expires,
	}); err != nil {
		return Delivery{}, mapStoreError(err, "", "無此使用者")
	}

	return s.sendVerification(ctx, user.Email, user.Username, token), nil
}
