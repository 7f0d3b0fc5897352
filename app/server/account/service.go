package account

import (
	"account-portal/app/server/jwt"
	"account-portal/app/server/store"
	"account-portal/app/server/tokens"
	"context"
	"errors"
	"fmt"
	"github.com/alexedwards/argon2id"
	"go.uber.org/zap"
	"net/url"
	"time"
)

// Notifier 把带 token 的链接送到用户手上
type Notifier interface {
	SendVerification(ctx context.Context, to string, username string, link string) error
	SendPasswordReset(ctx context.Context, to string, username string, link string) error
}

// Delivery 记录一次通知的结果，发送失败时由页面直接展示 Link
type Delivery struct {
	Delivered bool
	Link      string
}

type Service struct {
	l        *zap.Logger
	st       *store.Store
	jwt      *jwt.JWT
	notifier Notifier
	baseURL  string

	now        func() time.Time
	newToken   func() (string, error)
	hashParams *argon2id.Params
}

func New(l *zap.Logger, st *store.Store, j *jwt.JWT, notifier Notifier, baseURL string) *Service {
	return &Service{
		l:          l,
		st:         st,
		jwt:        j,
		notifier:   notifier,
		baseURL:    baseURL,
		now:        time.Now,
		newToken:   tokens.New,
		hashParams: argon2id.DefaultParams,
	}
}

// WithClock 替换时钟，测试用
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// WithHashParams 替换 argon2id 参数，测试里用更小的参数加速
func (s *Service) WithHashParams(params *argon2id.Params) *Service {
	s.hashParams = params
	return s
}

type baseURLKey struct{}

// WithBaseURL 记录本次请求的站点地址，未配置 PUBLIC_URL 时用于拼接邮件链接
func WithBaseURL(ctx context.Context, baseURL string) context.Context {
	return context.WithValue(ctx, baseURLKey{}, baseURL)
}

func (s *Service) link(ctx context.Context, path string, token string) string {
	base := s.baseURL
	if base == "" {
		if v, ok := ctx.Value(baseURLKey{}).(string); ok {
			base = v
		}
	}
	return base + path + "?token=" + url.QueryEscape(token)
}

func (s *Service) hash(password string) (string, error) {
	digest, err := argon2id.CreateHash(password, s.hashParams)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return digest, nil
}

// issueToken 生成一个一次性 token 和它的过期时间
func (s *Service) issueToken(ttl time.Duration) (string, time.Time, error) {
	token, err := s.newToken()
	if err != nil {
		return "", time.Time{}, fmt.Errorf("issue token: %w", err)
	}
	return token, s.now().Add(ttl), nil
}

func (s *Service) sendVerification(ctx context.Context, email string, username string, token string) Delivery {
	link := s.link(ctx, "/verify-email", token)
	if err := s.notifier.SendVerification(ctx, email, username, link); err != nil {
		s.l.Warn("failed to send verification mail", zap.String("email", email), zap.Error(err))
		return Delivery{Delivered: false, Link: link}
	}
	return Delivery{Delivered: true, Link: link}
}

// mapStoreError 把存储层错误转换成面向用户的错误
func mapStoreError(err error, conflictMessage string, notFoundMessage string) error {
	switch {
	case errors.Is(err, store.ErrConflict):
		return conflict(conflictMessage)
	case errors.Is(err, store.ErrNotFound):
		return notFound(notFoundMessage)
	case errors.Is(err, store.ErrSelfDelete):
		return ErrSelfDelete
	default:
		return err
	}
}
