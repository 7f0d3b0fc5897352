package middlewares

import (
	"account-portal/app/server/constants"
	"account-portal/app/server/models"
	"encoding/gob"
	"fmt"
	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
)

const contextKeyIdentity = "identity"

// Flash 是一次性的页面提示，Category 对应 success / info / warning / error
type Flash struct {
	Category string
	Message  string
	Link     string // 邮件寄送失败时直接展示的链接
}

func init() {
	// flash 以 gob 编码保存在 cookie 中
	gob.Register(Flash{})
}

// Identity 是会话中保存的登录身分，Role 是数据库中身分的缓存
type Identity struct {
	ID       uint
	Username string
	Role     string
}

func (i *Identity) IsAdmin() bool {
	return i.Role == constants.RoleAdmin
}

func getSession(c echo.Context) (*sessions.Session, error) {
	sess, err := session.Get(constants.SessionName, c)
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	return sess, nil
}

func identityFrom(sess *sessions.Session) *Identity {
	id, ok := sess.Values[constants.SessionKeyUserID].(uint)
	if !ok || id == 0 {
		return nil
	}
	username, _ := sess.Values[constants.SessionKeyUsername].(string)
	role, _ := sess.Values[constants.SessionKeyRole].(string)
	return &Identity{ID: id, Username: username, Role: role}
}

// CurrentUser 返回当前登录的用户，未登录时返回 nil
func CurrentUser(c echo.Context) *Identity {
	if identity, ok := c.Get(contextKeyIdentity).(*Identity); ok {
		return identity
	}
	sess, err := getSession(c)
	if err != nil {
		return nil
	}
	return identityFrom(sess)
}

// Login 建立会话
func Login(c echo.Context, user *models.User) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}

	role := user.Role
	if role == "" {
		role = constants.RoleRegular
	}
	sess.Values[constants.SessionKeyUserID] = user.ID
	sess.Values[constants.SessionKeyUsername] = user.Username
	sess.Values[constants.SessionKeyRole] = role

	c.Set(contextKeyIdentity, &Identity{ID: user.ID, Username: user.Username, Role: role})
	return sess.Save(c.Request(), c.Response())
}

// RefreshUsername 修改资料后更新会话里的用户名
func RefreshUsername(c echo.Context, username string) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	if identityFrom(sess) == nil {
		return nil
	}
	sess.Values[constants.SessionKeyUsername] = username
	if identity := CurrentUser(c); identity != nil {
		identity.Username = username
	}
	return sess.Save(c.Request(), c.Response())
}

// Logout 清除会话中的身分，保留会话本身用于显示 flash
func Logout(c echo.Context) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	delete(sess.Values, constants.SessionKeyUserID)
	delete(sess.Values, constants.SessionKeyUsername)
	delete(sess.Values, constants.SessionKeyRole)

	c.Set(contextKeyIdentity, nil)
	return sess.Save(c.Request(), c.Response())
}

func AddFlash(c echo.Context, category string, message string) error {
	return addFlash(c, Flash{Category: category, Message: message})
}

func AddFlashLink(c echo.Context, category string, message string, link string) error {
	return addFlash(c, Flash{Category: category, Message: message, Link: link})
}

func addFlash(c echo.Context, f Flash) error {
	sess, err := getSession(c)
	if err != nil {
		return err
	}
	sess.AddFlash(f)
	return sess.Save(c.Request(), c.Response())
}

// Flashes 取出并清除所有 flash
func Flashes(c echo.Context) []Flash {
	sess, err := getSession(c)
	if err != nil {
		return nil
	}
	raw := sess.Flashes()
	if len(raw) == 0 {
		return nil
	}

	flashes := make([]Flash, 0, len(raw))
	for _, v := range raw {
		if f, ok := v.(Flash); ok {
			flashes = append(flashes, f)
		}
	}
	_ = sess.Save(c.Request(), c.Response())
	return flashes
}
