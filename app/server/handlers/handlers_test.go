package handlers

import (
	"account-portal/app/server/account"
	"account-portal/app/server/config"
	"account-portal/app/server/constants"
	"account-portal/app/server/jwt"
	"account-portal/app/server/models"
	"account-portal/app/server/store"
	"account-portal/app/server/testutil"
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var testHashParams = &argon2id.Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type recordingNotifier struct {
	mu    sync.Mutex
	links []string
}

func (n *recordingNotifier) SendVerification(_ context.Context, _ string, _ string, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.links = append(n.links, link)
	return nil
}

func (n *recordingNotifier) SendPasswordReset(_ context.Context, _ string, _ string, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.links = append(n.links, link)
	return nil
}

// lastPath 返回最后一个链接的 path + query ，可以直接请求
func (n *recordingNotifier) lastPath(t *testing.T) string {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.links)
	u, err := url.Parse(n.links[len(n.links)-1])
	require.NoError(t, err)
	return u.RequestURI()
}

type testServer struct {
	t        *testing.T
	e        *echo.Echo
	st       *store.Store
	svc      *account.Service
	notifier *recordingNotifier
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	l := testutil.Logger(t)
	st := store.New(l, testutil.DB(t), nil)
	j, err := jwt.New("test-signing-key")
	require.NoError(t, err)

	cfg := &config.Config{}
	cfg.Security.SessionSecretKey = "test-session-key"
	cfg.Security.SignatureSecretKey = "test-signing-key"

	n := &recordingNotifier{}
	svc := account.New(l, st, j, n, "").WithHashParams(testHashParams)

	e, err := NewApp(l, cfg, st, svc).Server()
	require.NoError(t, err)

	return &testServer{t: t, e: e, st: st, svc: svc, notifier: n}
}

// createUser 直接写入数据库，跳过注册流程
func (s *testServer) createUser(username string, password string, role string, verified bool) *models.User {
	s.t.Helper()
	digest, err := argon2id.CreateHash(password, testHashParams)
	require.NoError(s.t, err)

	user := &models.User{
		Username:      username,
		Email:         username + "@example.com",
		PasswordHash:  digest,
		Role:          role,
		EmailVerified: verified,
	}
	require.NoError(s.t, s.st.Create(context.Background(), user))
	return user
}

// browser 保存 cookie ，模拟同一个浏览器的多次请求
type browser struct {
	s       *testServer
	cookies map[string]*http.Cookie
}

func (s *testServer) browser() *browser {
	return &browser{s: s, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	b.s.e.ServeHTTP(rec, req)
	for _, cookie := range rec.Result().Cookies() {
		b.cookies[cookie.Name] = cookie
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return b.do(req)
}

func (b *browser) upload(path string, field string, filename string, content []byte) *httptest.ResponseRecorder {
	b.s.t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile(field, filename)
	require.NoError(b.s.t, err)
	_, err = io.Copy(part, bytes.NewReader(content))
	require.NoError(b.s.t, err)
	require.NoError(b.s.t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	return b.do(req)
}

func (b *browser) login(username string, password string) {
	b.s.t.Helper()
	rec := b.post("/login", url.Values{"username": {username}, "password": {password}})
	require.Equal(b.s.t, http.StatusFound, rec.Code)
	require.Equal(b.s.t, "/home", rec.Header().Get(echo.HeaderLocation))
}

func (s *testServer) admin() (*models.User, *browser) {
	s.t.Helper()
	user := s.createUser("root", "rootpass", constants.RoleAdmin, true)
	b := s.browser()
	b.login("root", "rootpass")
	return user, b
}
