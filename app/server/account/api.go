package account

import (
	"account-portal/app/server/jwt"
	"account-portal/app/server/store"
	"account-portal/app/server/types"
	"context"
	"errors"
	"fmt"
	"strings"
)

// APIToken 以用户名或邮箱与密码换取签名 token
func (s *Service) APIToken(ctx context.Context, username string, password string) (string, int64, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return "", 0, invalid("請提供使用者名稱和密碼")
	}

	user, err := s.Login(ctx, username, password)
	if err != nil {
		return "", 0, err
	}

	token, expiresIn, err := s.jwt.SignToken(user.ID, user.Username)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}
	return token, expiresIn, nil
}

// VerifyAPIToken 只检查签名与有效期，不查询数据库
func (s *Service) VerifyAPIToken(token string) (*jwt.User, error) {
	if token == "" {
		return nil, invalid("缺少 token")
	}

	user, err := s.jwt.ParseUser(token)
	if err != nil {
		return nil, invalidToken("無效或過期的 token")
	}
	return user, nil
}

// APIUserInfo 验证 token 后返回用户信息
func (s *Service) APIUserInfo(ctx context.Context, token string) (*types.UserInfo, error) {
	claims, err := s.VerifyAPIToken(token)
	if err != nil {
		return nil, err
	}

	info, err := s.st.UserInfo(ctx, claims.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("使用者不存在")
		}
		return nil, fmt.Errorf("get user info: %w", err)
	}
	return info, nil
}
