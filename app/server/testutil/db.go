package testutil

import (
	"account-portal/app/server/inits"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
	"testing"
)

// DB 每个测试独占一个已迁移的内存 sqlite
func DB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_foreign_keys=on"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// 内存库在最后一个连接关闭时消失；单连接避免共享缓存的表锁
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	if err := inits.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func Logger(t *testing.T) *zap.Logger {
	t.Helper()
	return zap.NewNop()
}
