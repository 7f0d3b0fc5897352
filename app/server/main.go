package main

import (
	"account-portal/app/server/account"
	"account-portal/app/server/handlers"
	"account-portal/app/server/inits"
	"account-portal/app/server/jwt"
	"account-portal/app/server/mailer"
	"account-portal/app/server/store"
	"fmt"
	"go.uber.org/zap"
	"log"
)

func main() {
	// 初始化配置
	cfg, err := inits.Config()
	if err != nil {
		log.Fatal(fmt.Errorf("error loading config: %w", err))
	}

	// 初始化日志
	l, err := inits.Logger(!cfg.System.IsProd)
	if err != nil {
		log.Fatal(fmt.Errorf("error initializing logger: %w", err))
	}

	l.Debug("logger initialized")

	// 初始化数据库连接
	db, err := inits.DB(cfg, l)
	if err != nil {
		l.Fatal("error initializing DB connection", zap.Error(err))
	}

	// 初始化 redis 连接（可选）
	rdb, err := inits.Redis(cfg.System.RedisConnectionString)
	if err != nil {
		l.Fatal("error initializing Redis connection", zap.Error(err))
	}

	// 初始化 JWT
	j, err := jwt.New(cfg.Security.SignatureSecretKey)
	if err != nil {
		l.Fatal("error initializing JWT", zap.Error(err))
	}

	// 初始化邮件
	m := mailer.New(l, cfg.Mail)
	if m.DevMode() {
		l.Warn("SMTP credentials not set, mails will only be logged")
	}

	// 准备 handler app
	st := store.New(l, db, rdb)
	svc := account.New(l, st, j, m, cfg.System.PublicURL)
	handlerApp := handlers.NewApp(l, cfg, st, svc)

	// 准备 echo 服务
	e, err := handlerApp.Server()
	if err != nil {
		l.Fatal("error initializing server", zap.Error(err))
	}

	// 启动 echo 服务
	if err := e.Start(cfg.System.Listen); err != nil {
		l.Fatal("shutting down the server", zap.Error(err))
	}
}
