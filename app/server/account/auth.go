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

// Register 创建未验证的用户并寄出验证信，寄送失败不影响注册
func (s *Service) Register(ctx context.Context, in RegisterInput) (*models.User, Delivery, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, Delivery{}, err
	}

	// 快速检查，最终以数据库唯一约束为准
	if taken, err := s.st.UsernameTaken(ctx, in.Username, 0); err != nil {
		return nil, Delivery{}, err
	} else if taken {
		return nil, Delivery{}, conflict("使用者名稱已存在")
	}
	if taken, err := s.st.EmailTaken(ctx, in.Email, 0); err != nil {
		return nil, Delivery{}, err
	} else if taken {
		return nil, Delivery{}, conflict("電子信箱已被註冊")
	}

	digest, err := s.hash(in.Password)
	if err != nil {
		return nil, Delivery{}, err
	}
	token, expires, err := s.issueToken(constants.VerificationTokenDuration)
	if err != nil {
		return nil, Delivery{}, err
	}

	user := &models.User{
		Username:                 in.Username,
		Email:                    in.Email,
		PasswordHash:             digest,
		Role:                     constants.RoleRegular,
		EmailVerified:            false,
		VerificationToken:        &token,
		VerificationTokenExpires: &expires,
	}
	if err = s.st.Create(ctx, user); err != nil {
		return nil, Delivery{}, mapStoreError(err, "使用者名稱或電子信箱已存在", "")
	}

	s.l.Info("user registered", zap.Uint("id", user.ID), zap.String("username", user.Username))

	return user, s.sendVerification(ctx, user.Email, user.Username, token), nil
}

// Login 以用户名或邮箱登录，失败时不区分是哪一项错误
func (s *Service) Login(ctx context.Context, identifier string, password string) (*models.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, invalid(msgFillAll)
	}

	user, err := s.st.FindByLogin(ctx, identifier, password)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	if user.Role == "" {
		user.Role = constants.RoleRegular
	}
	return user, nil
}
