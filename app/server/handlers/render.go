package handlers

import (
	"account-portal/app/server/account"
	"account-portal/app/server/middlewares"
	"account-portal/app/server/views"
	"context"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
)

// render 渲染页面，extra 是本次请求内直接显示的提示
func (a *App) render(c echo.Context, statusCode int, name string, title string, data interface{}, extra ...middlewares.Flash) error {
	return c.Render(statusCode, name, views.Page{
		Title:   title,
		User:    middlewares.CurrentUser(c),
		Flashes: append(middlewares.Flashes(c), extra...),
		Data:    data,
	})
}

// er 渲染通用的错误页面
func (a *App) er(c echo.Context, statusCode int) error {
	return a.render(c, statusCode, "error.html", http.StatusText(statusCode), map[string]interface{}{
		"Status":  statusCode,
		"Message": http.StatusText(statusCode),
	})
}

func (a *App) redirect(c echo.Context, to string) error {
	return c.Redirect(http.StatusFound, to)
}

func (a *App) flash(c echo.Context, category string, message string) {
	if err := middlewares.AddFlash(c, category, message); err != nil {
		a.l.Error("failed to save flash", zap.Error(err))
	}
}

// flashDelivery 邮件寄送失败时把链接直接给用户
func (a *App) flashDelivery(c echo.Context, delivery account.Delivery, sentMessage string) {
	if delivery.Delivered {
		a.flash(c, "success", sentMessage)
		return
	}
	if err := middlewares.AddFlashLink(c, "warning", "郵件寄送失敗，請直接使用以下連結：", delivery.Link); err != nil {
		a.l.Error("failed to save flash", zap.Error(err))
	}
}

// ctx 返回带有站点地址的 context ，用于拼接邮件中的链接
func (a *App) ctx(c echo.Context) context.Context {
	return account.WithBaseURL(c.Request().Context(), c.Scheme()+"://"+c.Request().Host)
}

func statusFor(kind account.Kind) int {
	switch kind {
	case account.KindValidation, account.KindInvalidToken, account.KindExpiredToken, account.KindSelfDelete:
		return http.StatusBadRequest
	case account.KindConflict:
		return http.StatusConflict
	case account.KindInvalidCredentials:
		return http.StatusUnauthorized
	case account.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusOK
	}
}

// formError 在表单页面上显示面向用户的错误，其余错误记录日志并返回 500
func (a *App) formError(c echo.Context, err error, name string, title string, data interface{}) error {
	var e *account.Error
	if errors.As(err, &e) {
		return a.render(c, statusFor(e.Kind), name, title, data, middlewares.Flash{Category: "error", Message: e.Message})
	}
	a.l.Error("request failed", zap.String("page", name), zap.Error(err))
	return a.er(c, http.StatusInternalServerError)
}

// flashError 把面向用户的错误放进 flash 后跳转，其余错误返回 500
func (a *App) flashError(c echo.Context, err error, to string) error {
	var e *account.Error
	if errors.As(err, &e) {
		a.flash(c, "error", e.Message)
		return a.redirect(c, to)
	}
	a.l.Error("request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	return a.er(c, http.StatusInternalServerError)
}

func isTokenError(err error) bool {
	return errors.Is(err, account.ErrInvalidToken) || errors.Is(err, account.ErrExpiredToken)
}
