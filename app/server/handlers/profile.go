package handlers

import (
	"account-portal/app/server/account"
	"account-portal/app/server/constants"
	"account-portal/app/server/middlewares"
	"account-portal/app/server/models"
	"account-portal/app/server/utils"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"net/http"
)

type profileForm struct {
	Username        string `form:"username"`
	Email           string `form:"email"`
	Birthday        string `form:"birthday"`
	Phone           string `form:"phone"`
	Address         string `form:"address"`
	WorkRegion      string `form:"work_region"`
	CurrentPassword string `form:"current_password"`
	NewPassword     string `form:"new_password"`
	ConfirmPassword string `form:"confirm_password"`
}

func profileFormOf(user *models.User) profileForm {
	return profileForm{
		Username:   user.Username,
		Email:      user.Email,
		Birthday:   utils.Deref(user.Birthday),
		Phone:      utils.Deref(user.Phone),
		Address:    utils.Deref(user.Address),
		WorkRegion: utils.Deref(user.WorkRegion),
	}
}

func editProfileData(form profileForm) map[string]interface{} {
	// 不回填密码
	form.CurrentPassword, form.NewPassword, form.ConfirmPassword = "", "", ""
	return map[string]interface{}{
		"Form":        form,
		"WorkRegions": constants.WorkRegions,
	}
}

func (a *App) Profile(c echo.Context) error {
	user, err := a.svc.Profile(c.Request().Context(), middlewares.CurrentUser(c).ID)
	if err != nil {
		return a.flashError(c, err, "/logout")
	}
	return a.render(c, http.StatusOK, "profile.html", "個人資料", user)
}

func (a *App) EditProfilePage(c echo.Context) error {
	user, err := a.svc.Profile(c.Request().Context(), middlewares.CurrentUser(c).ID)
	if err != nil {
		return a.flashError(c, err, "/logout")
	}
	return a.render(c, http.StatusOK, "edit_profile.html", "編輯個人資料", editProfileData(profileFormOf(user)))
}

func (a *App) EditProfile(c echo.Context) error {
	var form profileForm
	if err := c.Bind(&form); err != nil {
		a.l.Error("failed to bind profile form", zap.Error(err))
		return a.er(c, http.StatusBadRequest)
	}

	result, err := a.svc.EditProfile(a.ctx(c), middlewares.CurrentUser(c).ID, account.ProfileInput{
		Username:        form.Username,
		Email:           form.Email,
		Birthday:        form.Birthday,
		Phone:           form.Phone,
		Address:         form.Address,
		WorkRegion:      form.WorkRegion,
		CurrentPassword: form.CurrentPassword,
		NewPassword:     form.NewPassword,
		ConfirmPassword: form.ConfirmPassword,
	})
	if err != nil {
		return a.formError(c, err, "edit_profile.html", "編輯個人資料", editProfileData(form))
	}

	if !result.Changed {
		a.flash(c, "info", "沒有任何變更")
		return a.redirect(c, "/profile")
	}

	if err = middlewares.RefreshUsername(c, result.User.Username); err != nil {
		a.l.Error("failed to refresh session", zap.Error(err))
	}
	a.flash(c, "success", "個人資料已更新")
	if result.EmailChanged {
		a.flashDelivery(c, result.Delivery, "電子信箱已變更，驗證信已寄至新的電子信箱")
	}
	return a.redirect(c, "/profile")
}
