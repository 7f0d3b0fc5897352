package handlers

import (
	"account-portal/app/server/account"
	"account-portal/app/server/constants"
	"account-portal/app/server/middlewares"
	"account-portal/app/server/models"
	"account-portal/app/server/spreadsheet"
	"account-portal/app/server/utils"
	"bytes"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
)

type adminUserForm struct {
	Action     string `form:"action"`
	UserID     uint   `form:"user_id"`
	Username   string `form:"username"`
	Email      string `form:"email"`
	Password   string `form:"password"`
	Birthday   string `form:"birthday"`
	Phone      string `form:"phone"`
	Address    string `form:"address"`
	WorkRegion string `form:"work_region"`
	Role       string `form:"role"`
}

func (f *adminUserForm) input() account.AdminUserInput {
	return account.AdminUserInput{
		Username:   f.Username,
		Email:      f.Email,
		Password:   f.Password,
		Birthday:   f.Birthday,
		Phone:      f.Phone,
		Address:    f.Address,
		WorkRegion: f.WorkRegion,
		Role:       f.Role,
	}
}

func adminUserFormOf(user *models.User) adminUserForm {
	return adminUserForm{
		Username:   user.Username,
		Email:      user.Email,
		Birthday:   utils.Deref(user.Birthday),
		Phone:      utils.Deref(user.Phone),
		Address:    utils.Deref(user.Address),
		WorkRegion: utils.Deref(user.WorkRegion),
		Role:       user.Role,
	}
}

const maxSkippedFlashes = 5

func queryUint(c echo.Context, name string) *uint {
	v := c.QueryParam(name)
	if v == "" {
		return nil
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return nil
	}
	return utils.P(uint(n))
}

func (a *App) DBManage(c echo.Context) error {
	page, err := a.svc.AdminList(c.Request().Context(), queryUint(c, "page"), queryUint(c, "limit"))
	if err != nil {
		a.l.Error("failed to list users", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}

	return a.render(c, http.StatusOK, "db_manage.html", "使用者管理", map[string]interface{}{
		"List":  page,
		"Roles": constants.Roles,
	})
}

// DBManagePost 处理新增与删除
func (a *App) DBManagePost(c echo.Context) error {
	var form adminUserForm
	if err := c.Bind(&form); err != nil {
		a.l.Error("failed to bind admin form", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	rctx := c.Request().Context()

	switch form.Action {
	case "add":
		user, err := a.svc.AdminAdd(rctx, form.input())
		if err != nil {
			return a.flashError(c, err, "/db-manage")
		}
		a.flash(c, "success", fmt.Sprintf("已新增使用者 %s", user.Username))
	case "delete":
		if err := a.svc.AdminDelete(rctx, form.UserID, middlewares.CurrentUser(c).ID); err != nil {
			return a.flashError(c, err, "/db-manage")
		}
		a.flash(c, "success", "使用者已刪除")
	default:
		a.flash(c, "error", "未知的操作")
	}

	return a.redirect(c, "/db-manage")
}

func parseIDParam(c echo.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func editUserData(id uint, form adminUserForm) map[string]interface{} {
	form.Password = ""
	return map[string]interface{}{
		"ID":          id,
		"Form":        form,
		"Roles":       constants.Roles,
		"WorkRegions": constants.WorkRegions,
	}
}

func (a *App) DBManageEditPage(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return a.er(c, http.StatusBadRequest)
	}

	user, err := a.svc.AdminGet(c.Request().Context(), id)
	if err != nil {
		return a.flashError(c, err, "/db-manage")
	}
	return a.render(c, http.StatusOK, "db_manage_edit.html", "編輯使用者", editUserData(id, adminUserFormOf(user)))
}

func (a *App) DBManageEdit(c echo.Context) error {
	id, ok := parseIDParam(c)
	if !ok {
		return a.er(c, http.StatusBadRequest)
	}

	var form adminUserForm
	if err := c.Bind(&form); err != nil {
		a.l.Error("failed to bind admin form", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	result, err := a.svc.AdminEdit(a.ctx(c), id, form.input())
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return a.flashError(c, err, "/db-manage")
		}
		return a.formError(c, err, "db_manage_edit.html", "編輯使用者", editUserData(id, form))
	}

	// 管理者修改自己的帐号时同步会话中的用户名
	if identity := middlewares.CurrentUser(c); identity != nil && identity.ID == id {
		if err = middlewares.RefreshUsername(c, result.User.Username); err != nil {
			a.l.Error("failed to refresh session username", zap.Uint("id", id), zap.Error(err))
		}
	}

	a.flash(c, "success", "使用者資料已更新")
	if result.EmailChanged {
		a.flashDelivery(c, result.Delivery, "電子信箱已變更，驗證信已寄至新的電子信箱")
	}
	return a.redirect(c, "/db-manage")
}

func (a *App) DBManageExport(c echo.Context) error {
	var buf bytes.Buffer
	if err := a.svc.Export(c.Request().Context(), &buf); err != nil {
		a.l.Error("failed to export users", zap.Error(err))
		a.flash(c, "error", "匯出失敗")
		return a.redirect(c, "/db-manage")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", a.svc.ExportFilename()))
	return c.Blob(http.StatusOK, spreadsheet.ContentType, buf.Bytes())
}

func (a *App) DBManageImport(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		a.flash(c, "error", "請選擇檔案")
		return a.redirect(c, "/db-manage")
	}
	if !strings.EqualFold(filepath.Ext(fileHeader.Filename), spreadsheet.Extension) {
		a.flash(c, "error", "僅支援 .xlsx 格式")
		return a.redirect(c, "/db-manage")
	}

	file, err := fileHeader.Open()
	if err != nil {
		a.l.Error("failed to open uploaded file", zap.Error(err))
		return a.er(c, http.StatusInternalServerError)
	}
	defer file.Close()

	report, err := a.svc.Import(c.Request().Context(), file)
	if err != nil {
		return a.flashError(c, err, "/db-manage")
	}

	a.flash(c, "success", fmt.Sprintf("匯入完成：新增 %d 筆，更新 %d 筆", report.Added, report.Updated))
	// flash 存在 cookie 里，只列出前几行
	for i, skipped := range report.Skipped {
		if i == maxSkippedFlashes {
			a.flash(c, "warning", fmt.Sprintf("另有 %d 列已略過", len(report.Skipped)-i))
			break
		}
		a.flash(c, "warning", fmt.Sprintf("第 %d 列已略過：%s", skipped.Row, skipped.Reason))
	}
	return a.redirect(c, "/db-manage")
}
