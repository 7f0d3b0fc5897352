package inits

import (
	"fmt"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
	"time"
)

func Logger(debugMode bool) (l *zap.Logger, err error) {
	if debugMode {
		l, err = zap.NewDevelopment()
	} else {
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	return l.Named("account"), nil
}

// GormLogger 让 gorm 的日志也走 zap
func GormLogger(l *zap.Logger, debugMode bool) gormlogger.Interface {
	level := gormlogger.Warn
	if debugMode {
		level = gormlogger.Info
	}

	return gormlogger.New(zap.NewStdLog(l.Named("gorm")), gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  level,
		IgnoreRecordNotFoundError: true, // 查无记录是正常业务分支
		Colorful:                  false,
	})
}
