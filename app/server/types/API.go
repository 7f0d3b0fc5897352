package types

type APIError struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

type TokenResponse struct {
	OK        bool   `json:"ok"`
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"` // 秒
}

type VerifyTokenResponse struct {
	OK       bool   `json:"ok"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
}

type UserInfoResponse struct {
	OK   bool      `json:"ok"`
	User *UserInfo `json:"user"`
}
