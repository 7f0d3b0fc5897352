package inits

import (
	"account-portal/app/server/config"
	"account-portal/app/server/constants"
	"account-portal/app/server/models"
	"fmt"
	"github.com/alexedwards/argon2id"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"os"
	"path/filepath"
)

func DB(cfg *config.Config, l *zap.Logger) (db *gorm.DB, err error) {
	gormCfg := &gorm.Config{
		Logger:         GormLogger(l, !cfg.System.IsProd),
		TranslateError: true, // 唯一约束冲突转换为 gorm.ErrDuplicatedKey
	}

	// 打开连接
	if cfg.System.DBConnectionString != "" {
		db, err = gorm.Open(postgres.Open(cfg.System.DBConnectionString), gormCfg)
	} else {
		if dir := filepath.Dir(cfg.System.DatabasePath); dir != "" {
			if err = os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
		db, err = gorm.Open(sqlite.Open(SQLiteDSN(cfg.System.DatabasePath)), gormCfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// 迁移
	if err = Migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// 初始化启动数据
	if err = initData(db, cfg); err != nil {
		return nil, fmt.Errorf("failed to init data into database: %w", err)
	}

	// 返回
	return db, nil
}

// SQLiteDSN 打开外键约束，tokens 表依赖级联删除
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Token{},
	)
}

func initData(db *gorm.DB, cfg *config.Config) (err error) {
	// 没有配置初始管理员时跳过
	if cfg.Admin.Username == "" || cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		return nil
	}

	// 查询现有记录数量
	var counter int64
	if err = db.Model(&models.User{}).Count(&counter).Error; err != nil {
		return fmt.Errorf("failed to get user count: %w", err)
	} else if counter > 0 {
		return nil
	}

	// 没有任何用户，添加初始管理员
	var password string
	if password, err = argon2id.CreateHash(cfg.Admin.Password, argon2id.DefaultParams); err != nil {
		return fmt.Errorf("failed to generate password: %w", err)
	}

	if err = db.Create(&models.User{
		Username:      cfg.Admin.Username,
		Email:         cfg.Admin.Email,
		PasswordHash:  password,
		EmailVerified: true,
		Role:          constants.RoleAdmin,
	}).Error; err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	return nil
}
