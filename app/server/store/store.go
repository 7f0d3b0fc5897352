package store

import (
	"context"
	"errors"
	"fmt"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrNotFound   = errors.New("user not found")
	ErrConflict   = errors.New("username or email already taken")
	ErrSelfDelete = errors.New("cannot delete the current account")
)

// Store 是用户凭证的持久化层
type Store struct {
	l   *zap.Logger
	db  *gorm.DB
	rdb *redis.Client // 可为 nil
}

func New(l *zap.Logger, db *gorm.DB, rdb *redis.Client) *Store {
	return &Store{
		l:   l,
		db:  db,
		rdb: rdb,
	}
}

// Transaction 在同一个事务中执行 fn ；嵌套调用时 gorm 使用 savepoint
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{
			l:   s.l,
			db:  tx,
			rdb: s.rdb,
		})
	})
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	default:
		return err
	}
}

// Ping 检查数据库连接，用于健康检查
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("get sql db: %w", err)
	}
	return sqlDB.PingContext(ctx)
}
