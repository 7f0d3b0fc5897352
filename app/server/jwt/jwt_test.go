package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_EmptyKey(t *testing.T) {
	_, err := New("")
	require.Error(t, err)
}

func TestSignAndParse(t *testing.T) {
	j, err := New("secret")
	require.NoError(t, err)

	token, expiresIn, err := j.SignToken(7, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(24*60*60), expiresIn)

	user, err := j.ParseUser(token)
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, user.IssuedAt+expiresIn, user.Expires)
}

func TestParse_WrongKey(t *testing.T) {
	a, _ := New("key-a")
	b, _ := New("key-b")

	token, _, err := a.SignToken(1, "bob")
	require.NoError(t, err)

	_, err = b.ParseUser(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Expired(t *testing.T) {
	issued := time.Now().Add(-25 * time.Hour)
	j, _ := New("secret")
	j.WithClock(func() time.Time { return issued })

	token, _, err := j.SignToken(1, "bob")
	require.NoError(t, err)

	j.WithClock(time.Now)
	_, err = j.ParseUser(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParse_Garbage(t *testing.T) {
	j, _ := New("secret")

	for _, tok := range []string{"", "abc", "a.b.c"} {
		_, err := j.ParseUser(tok)
		assert.ErrorIs(t, err, ErrInvalidToken, tok)
	}
}
