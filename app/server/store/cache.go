package store

import (
	"account-portal/app/server/constants"
	"account-portal/app/server/types"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// UserInfo 读取 API 用的用户信息，配置了 redis 时先查缓存
func (s *Store) UserInfo(ctx context.Context, id uint) (*types.UserInfo, error) {
	cacheKey := fmt.Sprintf(constants.CacheKeyUserInfo, id)

	// 查询缓存
	if s.rdb != nil {
		if cacheBytes, err := s.rdb.Get(ctx, cacheKey).Bytes(); err != nil {
			if !errors.Is(err, redis.Nil) {
				s.l.Error("failed to query cache for user info", zap.Uint("id", id), zap.Error(err))
			}
		} else {
			var info types.UserInfo
			if err = json.Unmarshal(cacheBytes, &info); err != nil {
				s.l.Error("failed to unmarshal user info", zap.Uint("id", id), zap.ByteString("cacheBytes", cacheBytes), zap.Error(err))
				// 可能是无效的缓存，清理掉
				s.rdb.Del(ctx, cacheKey)
			} else {
				return &info, nil
			}
		}
	}

	// 查询数据库
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	info := &types.UserInfo{
		ID:            user.ID,
		Username:      user.Username,
		Email:         user.Email,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
	}

	// 格式化并加入缓存，方便下一次查询
	if s.rdb != nil {
		if cacheBytes, err := json.Marshal(info); err != nil {
			s.l.Error("failed to marshal user info", zap.Uint("id", id), zap.Error(err))
		} else {
			s.rdb.Set(ctx, cacheKey, cacheBytes, constants.CacheExpireUserInfo)
		}
	}

	return info, nil
}

func (s *Store) invalidate(ctx context.Context, id uint) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, fmt.Sprintf(constants.CacheKeyUserInfo, id)).Err(); err != nil {
		s.l.Error("failed to invalidate user info cache", zap.Uint("id", id), zap.Error(err))
	}
}
