package handlers

import (
	"account-portal/app/server/account"
	"account-portal/app/server/config"
	"account-portal/app/server/store"
	"go.uber.org/zap"
)

type App struct {
	l   *zap.Logger      // 日志
	cfg *config.Config   // 配置，只读
	st  *store.Store     // 用户数据
	svc *account.Service // 帐号相关的操作
}

func NewApp(l *zap.Logger, cfg *config.Config, st *store.Store, svc *account.Service) *App {
	return &App{
		l:   l,
		cfg: cfg,
		st:  st,
		svc: svc,
	}
}
