package handlers

import (
	"account-portal/app/server/apidocs"
	"account-portal/app/server/middlewares"
	"account-portal/app/server/views"
	"fmt"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"net/http"
)

// Server 准备 echo 服务：中间件、模板、路由，非生产环境下附带 API 文档
func (a *App) Server() (*echo.Echo, error) {
	renderer, err := views.New()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			a.l.Info("request",
				zap.String("URI", v.URI),
				zap.Int("status", v.Status),
				zap.String("requestID", v.RequestID),
			)

			return nil
		},
	}))
	e.Use(middleware.Recover())

	// 会话
	store := sessions.NewCookieStore([]byte(a.cfg.Security.SessionSecretKey))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7,
		HttpOnly: true,
		Secure:   a.cfg.System.IsProd,
		SameSite: http.SameSiteLaxMode,
	}
	e.Use(session.Middleware(store))
	e.Use(middlewares.Session(a.st, a.l))

	a.RegisterRoutes(e)

	// 添加 API 文档
	if !a.cfg.System.IsProd {
		if specJSON, err := apidocs.TokenAPI().MarshalJSON(); err != nil {
			a.l.Error("error initializing api docs", zap.Error(err))
		} else {
			e.Pre(apidocs.Doc("/api", specJSON, apidocs.WithTitle("Account portal token API")))
		}
	}

	return e, nil
}
