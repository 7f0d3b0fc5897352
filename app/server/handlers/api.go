package handlers

import (
	"account-portal/app/server/account"
	"account-portal/app/server/types"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"strings"
)

// bearerToken 从 Authorization 头中提取 token ，格式不对时返回空字符串
func bearerToken(c echo.Context) string {
	authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
	if authHeader == "" {
		return ""
	}

	splits := strings.Split(authHeader, " ")
	if len(splits) != 2 {
		return ""
	}

	if strings.ToLower(splits[0]) != "bearer" {
		return ""
	}

	return splits[1]
}

// apiError 把错误转换成 {ok:false, message} ，非面向用户的错误返回 500
func (a *App) apiError(c echo.Context, err error) error {
	var e *account.Error
	if errors.As(err, &e) {
		status := statusFor(e.Kind)
		if e.Kind == account.KindInvalidToken {
			status = http.StatusUnauthorized
		}
		return c.JSON(status, &types.APIError{OK: false, Message: e.Message})
	}

	a.l.Error("api request failed", zap.String("uri", c.Request().RequestURI), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, &types.APIError{OK: false, Message: http.StatusText(http.StatusInternalServerError)})
}

func (a *App) APIToken(c echo.Context) error {
	token, expiresIn, err := a.svc.APIToken(c.Request().Context(), c.FormValue("username"), c.FormValue("password"))
	if err != nil {
		return a.apiError(c, err)
	}

	return c.JSON(http.StatusOK, &types.TokenResponse{
		OK:        true,
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

func (a *App) APIVerifyToken(c echo.Context) error {
	user, err := a.svc.VerifyAPIToken(bearerToken(c))
	if err != nil {
		return a.apiError(c, err)
	}

	return c.JSON(http.StatusOK, &types.VerifyTokenResponse{
		OK:       true,
		UserID:   user.ID,
		Username: user.Username,
	})
}

func (a *App) APIUserInfo(c echo.Context) error {
	info, err := a.svc.APIUserInfo(c.Request().Context(), bearerToken(c))
	if err != nil {
		return a.apiError(c, err)
	}

	return c.JSON(http.StatusOK, &types.UserInfoResponse{
		OK:   true,
		User: info,
	})
}
