package middlewares

import (
	"account-portal/app/server/constants"
	"account-portal/app/server/models"
	"account-portal/app/server/store"
	"context"
	"errors"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
)

// UserSource 按 ID 读取用户，由 store.Store 实现
type UserSource interface {
	GetByID(ctx context.Context, id uint) (*models.User, error)
}

// ErrUserGone 会话中的用户已经不存在
var ErrUserGone = errors.New("session user no longer exists")

// Session 读取会话身分放入 context ；会话中缺少身分时从数据库补上
func Session(users UserSource, l *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sess, err := getSession(c)
			if err != nil {
				l.Warn("failed to load session", zap.Error(err))
				return next(c)
			}

			identity := identityFrom(sess)
			if identity != nil && identity.Role == "" {
				user, err := users.GetByID(c.Request().Context(), identity.ID)
				if err != nil {
					l.Warn("failed to backfill session role", zap.Uint("id", identity.ID), zap.Error(err))
				} else {
					identity.Role = user.Role
					if identity.Role == "" {
						identity.Role = constants.RoleRegular
					}
					sess.Values[constants.SessionKeyRole] = identity.Role
					if err = sess.Save(c.Request(), c.Response()); err != nil {
						l.Error("failed to save session", zap.Error(err))
					}
				}
			}

			c.Set(contextKeyIdentity, identity)
			return next(c)
		}
	}
}

func redirectWithFlash(c echo.Context, category string, message string, to string) error {
	_ = AddFlash(c, category, message)
	return c.Redirect(http.StatusFound, to)
}

// RequireLogin 未登录时跳转到首页
func RequireLogin() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentUser(c) == nil {
				return redirectWithFlash(c, "warning", "請先登入", "/")
			}
			return next(c)
		}
	}
}

// loadUser 读取当前登录者的最新资料，用户已被删除时清除会话；
// 其他查询错误不动会话，交给错误处理返回 500
func loadUser(c echo.Context, users UserSource) (*models.User, error) {
	identity := CurrentUser(c)
	if identity == nil {
		return nil, ErrUserGone
	}
	user, err := users.GetByID(c.Request().Context(), identity.ID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = Logout(c)
			return nil, ErrUserGone
		}
		return nil, echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err)
	}
	return user, nil
}

// RequireVerified 需要在 RequireLogin 之后使用
func RequireVerified(users UserSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := loadUser(c, users)
			if errors.Is(err, ErrUserGone) {
				return redirectWithFlash(c, "warning", "請先登入", "/")
			} else if err != nil {
				return err
			}
			if !user.EmailVerified {
				return redirectWithFlash(c, "warning", "請先驗證您的電子信箱", "/verify-email")
			}
			return next(c)
		}
	}
}

// RequireAdmin 需要在 RequireLogin 之后使用，以数据库中的身分为准
func RequireAdmin(users UserSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user, err := loadUser(c, users)
			if errors.Is(err, ErrUserGone) {
				return redirectWithFlash(c, "warning", "請先登入", "/")
			} else if err != nil {
				return err
			}
			if !user.IsAdmin() {
				return redirectWithFlash(c, "error", "權限不足，僅限管理者使用", "/home")
			}
			return next(c)
		}
	}
}
