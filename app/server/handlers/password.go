package handlers

import (
	"account-portal/app/server/account"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
)

type resetPasswordForm struct {
	Token           string `form:"token"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

func (a *App) ForgotPasswordPage(c echo.Context) error {
	return a.render(c, http.StatusOK, "forgot_password.html", "忘記密碼", nil)
}

func (a *App) ForgotPassword(c echo.Context) error {
	if err := a.svc.ForgotPassword(a.ctx(c), c.FormValue("email")); err != nil {
		return a.formError(c, err, "forgot_password.html", "忘記密碼", nil)
	}

	// 无论邮箱是否存在都显示同样的结果
	a.flash(c, "success", "如果該電子信箱已註冊，重設密碼連結已發送")
	return a.redirect(c, "/")
}

func (a *App) ResetPasswordPage(c echo.Context) error {
	token := c.QueryParam("token")
	if _, err := a.svc.CheckResetToken(c.Request().Context(), token); err != nil {
		return a.flashError(c, err, "/forgot-password")
	}
	return a.render(c, http.StatusOK, "reset_password.html", "重設密碼", resetPasswordForm{Token: token})
}

func (a *App) ResetPassword(c echo.Context) error {
	var form resetPasswordForm
	if err := c.Bind(&form); err != nil {
		a.l.Error("failed to bind reset password form", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}
	if form.Token == "" {
		form.Token = c.QueryParam("token")
	}

	err := a.svc.ResetPassword(c.Request().Context(), account.ResetPasswordInput{
		Token:           form.Token,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		// token 有问题时回到申请页面，表单错误留在本页
		if isTokenError(err) {
			return a.flashError(c, err, "/forgot-password")
		}
		return a.formError(c, err, "reset_password.html", "重設密碼", resetPasswordForm{Token: form.Token})
	}

	a.flash(c, "success", "密碼重設成功，請使用新密碼登入")
	return a.redirect(c, "/")
}
