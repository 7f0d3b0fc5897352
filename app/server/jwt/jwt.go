package jwt

import (
	"account-portal/app/server/constants"
	"errors"
	"fmt"
	"github.com/golang-jwt/jwt/v5"
	"time"
)

// ErrInvalidToken 签名错误、格式错误与过期都归为这一种
var ErrInvalidToken = errors.New("invalid or expired token")

type JWT struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

type User struct {
	ID       uint
	Username string
	IssuedAt int64 // Unix second
	Expires  int64 // Unix second
}

type claims struct {
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

func New(key string) (*JWT, error) {
	if len(key) == 0 {
		return nil, errors.New("key is empty")
	}

	return &JWT{
		key: []byte(key),
		ttl: constants.AuthTokenDuration,
		now: time.Now,
	}, nil
}

// WithClock 替换时间来源，测试过期用
func (j *JWT) WithClock(now func() time.Time) *JWT {
	j.now = now
	return j
}

func (j *JWT) TTL() time.Duration {
	return j.ttl
}

func (j *JWT) ParseUser(tokenString string) (*User, error) {
	// 检查是否有效
	if len(tokenString) == 0 {
		return nil, fmt.Errorf("%w: token string is empty", ErrInvalidToken)
	}

	// 映射字段
	c := &claims{}
	token, err := jwt.ParseWithClaims(tokenString, c, func(token *jwt.Token) (interface{}, error) {
		return j.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !token.Valid || c.UserID == 0 {
		return nil, ErrInvalidToken
	}

	user := &User{
		ID:       c.UserID,
		Username: c.Username,
		Expires:  c.ExpiresAt.Unix(),
	}
	if c.IssuedAt != nil {
		user.IssuedAt = c.IssuedAt.Unix()
	}

	return user, nil
}

// SignToken 签出令牌，同时返回有效秒数
func (j *JWT) SignToken(id uint, username string) (string, int64, error) {
	now := j.now()

	// 创建声明
	c := claims{
		UserID:   id,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.ttl)),
		},
	}

	// 创建令牌
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, c)

	// 签名并返回
	signed, err := token.SignedString(j.key)
	if err != nil {
		return "", 0, fmt.Errorf("sign token: %w", err)
	}

	return signed, int64(j.ttl.Seconds()), nil
}
