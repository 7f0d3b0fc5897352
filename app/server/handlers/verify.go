package handlers

import (
	"account-portal/app/server/account"
	"account-portal/app/server/middlewares"
	"errors"
	"github.com/labstack/echo/v4"
	"net/http"
)

// VerifyEmail 带 token 时消费验证链接，否则显示当前用户的验证状态
func (a *App) VerifyEmail(c echo.Context) error {
	if token := c.QueryParam("token"); token != "" {
		_, err := a.svc.VerifyEmail(c.Request().Context(), token)
		switch {
		case err == nil:
			a.flash(c, "success", "電子信箱驗證成功！")
		case errors.Is(err, account.ErrAlreadyVerified):
			a.flash(c, "info", account.ErrAlreadyVerified.Message)
		default:
			return a.flashError(c, err, "/")
		}
		return a.redirect(c, "/")
	}

	identity := middlewares.CurrentUser(c)
	if identity == nil {
		a.flash(c, "warning", "請先登入")
		return a.redirect(c, "/")
	}

	user, err := a.svc.Profile(c.Request().Context(), identity.ID)
	if err != nil {
		return a.flashError(c, err, "/logout")
	}
	if user.EmailVerified {
		a.flash(c, "info", account.ErrAlreadyVerified.Message)
		return a.redirect(c, "/home")
	}

	return a.render(c, http.StatusOK, "verify_email.html", "電子信箱驗證", user)
}

func (a *App) ResendVerification(c echo.Context) error {
	delivery, err := a.svc.ResendVerification(a.ctx(c), middlewares.CurrentUser(c).ID)
	if err != nil {
		if errors.Is(err, account.ErrAlreadyVerified) {
			a.flash(c, "info", account.ErrAlreadyVerified.Message)
			return a.redirect(c, "/home")
		}
		return a.flashError(c, err, "/verify-email")
	}

	a.flashDelivery(c, delivery, "驗證郵件已重新發送至您的電子信箱，請查收。")
	return a.redirect(c, "/verify-email")
}
