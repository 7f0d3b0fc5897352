package tokens

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

const opaqueBytes = 32

// New 产生一次性使用的随机令牌（邮箱验证、重设密码），URL 安全
func New() (string, error) {
	buf := make([]byte, opaqueBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("could not generate token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(buf), nil
}
