package account

import "errors"

type Kind int

const (
	KindValidation Kind = iota + 1
	KindConflict
	KindInvalidToken
	KindExpiredToken
	KindInvalidCredentials
	KindNotFound
	KindSelfDelete
	KindAlreadyVerified
)

// Error 是面向用户的错误，Message 可以直接显示在页面上
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Is 只比较 Kind ，所以 errors.Is(err, ErrConflict) 对任何冲突错误都成立
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrValidation         = &Error{Kind: KindValidation, Message: "輸入資料有誤"}
	ErrConflict           = &Error{Kind: KindConflict, Message: "使用者名稱或電子信箱已存在"}
	ErrInvalidToken       = &Error{Kind: KindInvalidToken, Message: "無效的連結"}
	ErrExpiredToken       = &Error{Kind: KindExpiredToken, Message: "連結已過期"}
	ErrInvalidCredentials = &Error{Kind: KindInvalidCredentials, Message: "使用者名稱或密碼錯誤"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "無此使用者"}
	ErrSelfDelete         = &Error{Kind: KindSelfDelete, Message: "無法刪除目前登入者"}
	ErrAlreadyVerified    = &Error{Kind: KindAlreadyVerified, Message: "您的電子信箱已經驗證過了"}
)

func invalid(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}

func conflict(message string) error {
	return &Error{Kind: KindConflict, Message: message}
}

func invalidToken(message string) error {
	return &Error{Kind: KindInvalidToken, Message: message}
}

func expiredToken(message string) error {
	return &Error{Kind: KindExpiredToken, Message: message}
}

func notFound(message string) error {
	return &Error{Kind: KindNotFound, Message: message}
}

// Message 取出可显示的错误信息，非 *Error 时返回 fallback
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return fallback
}
