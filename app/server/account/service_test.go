package account

import (
	"account-portal/app/server/jwt"
	"account-portal/app/server/store"
	"account-portal/app/server/testutil"
	"context"
	"errors"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"
)

var testHashParams = &argon2id.Params{
	Memory:      1024,
	Iterations:  1,
	Parallelism: 1,
	SaltLength:  16,
	KeyLength:   32,
}

type sentMail struct {
	Kind     string
	To       string
	Username string
	Link     string
}

type fakeNotifier struct {
	mu   sync.Mutex
	sent []sentMail
	fail bool
}

func (n *fakeNotifier) record(kind string, to string, username string, link string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.fail {
		return errors.New("smtp unavailable")
	}
	n.sent = append(n.sent, sentMail{Kind: kind, To: to, Username: username, Link: link})
	return nil
}

func (n *fakeNotifier) SendVerification(_ context.Context, to string, username string, link string) error {
	return n.record("verification", to, username, link)
}

func (n *fakeNotifier) SendPasswordReset(_ context.Context, to string, username string, link string) error {
	return n.record("reset", to, username, link)
}

func (n *fakeNotifier) last(t *testing.T) sentMail {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent)
	return n.sent[len(n.sent)-1]
}

// tokenFromLink 取出链接中的 token 参数
func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return u.Query().Get("token")
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time {
	return c.now
}

type fixture struct {
	svc      *Service
	st       *store.Store
	notifier *fakeNotifier
	clock    *clock
	jwt      *jwt.JWT
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	l := testutil.Logger(t)
	st := store.New(l, testutil.DB(t), nil)
	j, err := jwt.New("test-signing-key")
	require.NoError(t, err)

	c := &clock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	n := &fakeNotifier{}
	svc := New(l, st, j, n, "http://portal.test").
		WithClock(c.Now).
		WithHashParams(testHashParams)

	return &fixture{svc: svc, st: st, notifier: n, clock: c, jwt: j}
}

func (f *fixture) register(t *testing.T, username string, email string, password string) uint {
	t.Helper()
	user, _, err := f.svc.Register(context.Background(), RegisterInput{
		Username:        username,
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	require.NoError(t, err)
	return user.ID
}
