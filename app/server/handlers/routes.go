package handlers

import (
	"account-portal/app/server/middlewares"
	"github.com/labstack/echo/v4"
)

// RegisterRoutes 绑定所有路由，需要先挂上 session 中间件
func (a *App) RegisterRoutes(e *echo.Echo) {
	login := middlewares.RequireLogin()
	verified := middlewares.RequireVerified(a.st)
	admin := middlewares.RequireAdmin(a.st)

	e.GET("/health", a.HealthCheck)

	// 公开页面
	e.GET("/", a.Index)
	e.GET("/register", a.RegisterPage)
	e.POST("/register", a.Register)
	e.GET("/login", a.LoginPage)
	e.POST("/login", a.Login)
	e.GET("/logout", a.Logout)
	e.GET("/verify-email", a.VerifyEmail)
	e.GET("/forgot-password", a.ForgotPasswordPage)
	e.POST("/forgot-password", a.ForgotPassword)
	e.GET("/reset-password", a.ResetPasswordPage)
	e.POST("/reset-password", a.ResetPassword)

	// 需要登录
	e.GET("/home", a.Home, login)
	e.GET("/option/:num", a.Option, login, verified)
	e.POST("/resend-verification", a.ResendVerification, login)
	e.GET("/profile", a.Profile, login)
	e.GET("/profile/edit", a.EditProfilePage, login)
	e.POST("/profile/edit", a.EditProfile, login)

	// 管理员
	e.GET("/db-manage", a.DBManage, login, admin)
	e.POST("/db-manage", a.DBManagePost, login, admin)
	e.GET("/db-manage/edit/:id", a.DBManageEditPage, login, admin)
	e.POST("/db-manage/edit/:id", a.DBManageEdit, login, admin)
	e.GET("/db-manage/export", a.DBManageExport, login, admin)
	e.POST("/db-manage/import", a.DBManageImport, login, admin)

	// 无状态 API
	api := e.Group("/api")
	api.POST("/token", a.APIToken)
	api.POST("/verify-token", a.APIVerifyToken)
	api.GET("/user-info", a.APIUserInfo)
}
