package inits

import (
	"context"
	"fmt"
	"github.com/redis/go-redis/v9"
	"time"
)

// Redis 未配置连接字符串时返回 nil ，调用方按无缓存处理
func Redis(conn string) (*redis.Client, error) {
	if conn == "" {
		return nil, nil
	}

	opts, err := redis.ParseURL(conn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis connection string: %w", err)
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err = rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return rdb, nil
}
