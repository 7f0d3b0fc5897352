package handlers

import (
	"account-portal/app/server/account"
	"account-portal/app/server/middlewares"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"strconv"
)

// optionCount 首页上功能入口的数量
const optionCount = 20

type loginForm struct {
	Identifier string `form:"username"`
	Password   string `form:"password"`
}

type registerForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Password        string `form:"password"`
	ConfirmPassword string `form:"confirm_password"`
}

func (a *App) Index(c echo.Context) error {
	if middlewares.CurrentUser(c) != nil {
		return a.redirect(c, "/home")
	}
	return a.render(c, http.StatusOK, "login.html", "登入", loginForm{})
}

func (a *App) Home(c echo.Context) error {
	user, err := a.svc.Profile(c.Request().Context(), middlewares.CurrentUser(c).ID)
	if err != nil {
		return a.flashError(c, err, "/logout")
	}

	return a.render(c, http.StatusOK, "home.html", "首頁", map[string]interface{}{
		"EmailVerified": user.EmailVerified,
		"Options":       optionCount,
	})
}

func (a *App) Option(c echo.Context) error {
	num, err := strconv.Atoi(c.Param("num"))
	if err != nil || num < 1 || num > optionCount {
		return a.er(c, http.StatusNotFound)
	}
	return a.render(c, http.StatusOK, "option.html", "功能 "+strconv.Itoa(num), map[string]interface{}{
		"Num": num,
	})
}

func (a *App) RegisterPage(c echo.Context) error {
	if middlewares.CurrentUser(c) != nil {
		return a.redirect(c, "/home")
	}
	return a.render(c, http.StatusOK, "register.html", "註冊", registerForm{})
}

func (a *App) Register(c echo.Context) error {
	var form registerForm
	if err := c.Bind(&form); err != nil {
		a.l.Error("failed to bind register form", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	_, delivery, err := a.svc.Register(a.ctx(c), account.RegisterInput{
		Username:        form.Username,
		Email:           form.Email,
		Password:        form.Password,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		// 不回填密码
		return a.formError(c, err, "register.html", "註冊", registerForm{Username: form.Username, Email: form.Email})
	}

	a.flashDelivery(c, delivery, "註冊成功！我們已發送驗證郵件至您的電子信箱，請查收並點擊連結完成驗證。")

	return a.redirect(c, "/")
}

func (a *App) LoginPage(c echo.Context) error {
	return a.Index(c)
}

func (a *App) Login(c echo.Context) error {
	var form loginForm
	if err := c.Bind(&form); err != nil {
		a.l.Error("failed to bind login form", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	user, err := a.svc.Login(c.Request().Context(), form.Identifier, form.Password)
	if err != nil {
		return a.formError(c, err, "login.html", "登入", loginForm{Identifier: form.Identifier})
	}

	if err = middlewares.Login(c, user); err != nil {
		a.l.Error("failed to save session", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	a.flash(c, "success", "登入成功")

	return a.redirect(c, "/home")
}

func (a *App) Logout(c echo.Context) error {
	if err := middlewares.Logout(c); err != nil {
		a.l.Error("failed to clear session", zap.Error(err))
	}
	a.flash(c, "info", "您已登出")
	return a.redirect(c, "/")
}
