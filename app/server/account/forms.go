package account

import (
	"account-portal/app/server/constants"
	"errors"
	"fmt"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"strings"
)

const (
	msgFillAll          = "請填寫所有欄位"
	msgPasswordMismatch = "密碼不一致"
	msgEmailFormat      = "電子信箱格式不正確"
	msgWorkRegion       = "工作轄區不在選項中"
	msgRole             = "身分不在選項中"
	msgBirthday         = "生日格式應為 YYYY-MM-DD"
)

var msgPasswordLength = fmt.Sprintf("密碼長度至少 %d 個字元", constants.PasswordMinLength)

// check 是一个字段与它的规则，按顺序校验，返回第一个错误
type check struct {
	value interface{}
	rules []validation.Rule
}

func field(value interface{}, rules ...validation.Rule) check {
	return check{value: value, rules: rules}
}

func validate(checks ...check) error {
	for _, c := range checks {
		if err := validation.Validate(c.value, c.rules...); err != nil {
			return invalid(err.Error())
		}
	}
	return nil
}

func required(message string) validation.Rule {
	return validation.Required.Error(message)
}

func passwordLength() validation.Rule {
	return validation.Length(constants.PasswordMinLength, 0).Error(msgPasswordLength)
}

func matches(other string, message string) validation.Rule {
	return validation.By(func(value interface{}) error {
		if s, _ := value.(string); s != other {
			return errors.New(message)
		}
		return nil
	})
}

func workRegion() validation.Rule {
	values := make([]interface{}, 0, len(constants.WorkRegions))
	for _, r := range constants.WorkRegions {
		values = append(values, r)
	}
	return validation.In(values...).Error(msgWorkRegion)
}

func role() validation.Rule {
	values := make([]interface{}, 0, len(constants.Roles))
	for _, r := range constants.Roles {
		values = append(values, r)
	}
	return validation.In(values...).Error(msgRole)
}

func birthday() validation.Rule {
	return validation.Date(constants.BirthdayLayout).Error(msgBirthday)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type RegisterInput struct {
	Username        string
	Email           string
	Password        string
	ConfirmPassword string
}

func (in *RegisterInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
}

func (in *RegisterInput) Validate() error {
	return validate(
		field(in.Username, required(msgFillAll)),
		field(in.Email, required(msgFillAll)),
		field(in.Password, required(msgFillAll)),
		field(in.ConfirmPassword, required(msgFillAll)),
		field(in.Email, is.Email.Error(msgEmailFormat)),
		field(in.ConfirmPassword, matches(in.Password, msgPasswordMismatch)),
		field(in.Password, passwordLength()),
	)
}

type ResetPasswordInput struct {
	Token           string
	Password        string
	ConfirmPassword string
}

func (in *ResetPasswordInput) Validate() error {
	return validate(
		field(in.Password, required(msgFillAll)),
		field(in.ConfirmPassword, required(msgFillAll)),
		field(in.ConfirmPassword, matches(in.Password, msgPasswordMismatch)),
		field(in.Password, passwordLength()),
	)
}

// ProfileInput 是用户自己修改资料的表单，新密码留空表示不修改
type ProfileInput struct {
	Username   string
	Email      string
	Birthday   string
	Phone      string
	Address    string
	WorkRegion string

	CurrentPassword string
	NewPassword     string
	ConfirmPassword string
}

func (in *ProfileInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	in.Birthday = strings.TrimSpace(in.Birthday)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.WorkRegion = strings.TrimSpace(in.WorkRegion)
}

func (in *ProfileInput) Validate() error {
	if err := validate(
		field(in.Username, required("使用者名稱與電子信箱為必填")),
		field(in.Email, required("使用者名稱與電子信箱為必填")),
		field(in.Email, is.Email.Error(msgEmailFormat)),
		field(in.Birthday, birthday()),
		field(in.WorkRegion, workRegion()),
	); err != nil {
		return err
	}

	if in.NewPassword == "" {
		return nil
	}
	return validate(
		field(in.CurrentPassword, required("請輸入目前密碼")),
		field(in.ConfirmPassword, matches(in.NewPassword, "新密碼不一致")),
		field(in.NewPassword, passwordLength()),
	)
}

// AdminUserInput 是管理员新增与编辑用户的表单
type AdminUserInput struct {
	Username   string
	Email      string
	Password   string
	Birthday   string
	Phone      string
	Address    string
	WorkRegion string
	Role       string
}

func (in *AdminUserInput) normalize() {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = normalizeEmail(in.Email)
	in.Birthday = strings.TrimSpace(in.Birthday)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Address = strings.TrimSpace(in.Address)
	in.WorkRegion = strings.TrimSpace(in.WorkRegion)
	in.Role = strings.TrimSpace(in.Role)
	if in.Role == "" {
		in.Role = constants.RoleRegular
	}
}

func (in *AdminUserInput) validateAdd() error {
	return validate(
		field(in.Username, required("新增時請填寫使用者名稱、電子信箱、密碼")),
		field(in.Email, required("新增時請填寫使用者名稱、電子信箱、密碼")),
		field(in.Password, required("新增時請填寫使用者名稱、電子信箱、密碼")),
		field(in.Email, is.Email.Error(msgEmailFormat)),
		field(in.Password, passwordLength()),
		field(in.Role, role()),
	)
}

func (in *AdminUserInput) validateEdit() error {
	return validate(
		field(in.Username, required("使用者名稱與電子信箱為必填")),
		field(in.Email, required("使用者名稱與電子信箱為必填")),
		field(in.Email, is.Email.Error(msgEmailFormat)),
		field(in.Password, passwordLength()),
		field(in.Birthday, birthday()),
		field(in.WorkRegion, workRegion()),
		field(in.Role, role()),
	)
}
