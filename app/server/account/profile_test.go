package account

import (
	"account-portal/app/server/constants"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func profileOf(t *testing.T, f *fixture, id uint) ProfileInput {
	t.Helper()
	user, err := f.svc.Profile(context.Background(), id)
	require.NoError(t, err)
	return ProfileInput{Username: user.Username, Email: user.Email}
}

func TestEditProfile_NothingChanged(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "alice", "alice@example.com", "secret1")
	before, err := f.st.GetByID(ctx, id)
	require.NoError(t, err)

	result, err := f.svc.EditProfile(ctx, id, profileOf(t, f, id))
	require.NoError(t, err)
	assert.False(t, result.Changed)

	after, err := f.st.GetByID(ctx, id)
	require.NoError(t, err)
	assert.True(t, before.UpdatedAt.Equal(after.UpdatedAt))
}

func TestEditProfile_Attributes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "alice", "alice@example.com", "secret1")

	in := profileOf(t, f, id)
	in.Birthday = "1990-02-03"
	in.Phone = "0912345678"
	in.WorkRegion = "高屏"
	result, err := f.svc.EditProfile(ctx, id, in)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.False(t, result.EmailChanged)
	require.NotNil(t, result.User.WorkRegion)
	assert.Equal(t, "高屏", *result.User.WorkRegion)
	assert.Nil(t, result.User.Address)

	// 清空栏位写回 NULL
	in.Phone = ""
	result, err = f.svc.EditProfile(ctx, id, in)
	require.NoError(t, err)
	assert.True(t, result.Changed)
	assert.Nil(t, result.User.Phone)
}

func TestEditProfile_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "alice", "alice@example.com", "secret1")

	in := profileOf(t, f, id)
	in.WorkRegion = "火星"
	_, err := f.svc.EditProfile(ctx, id, in)
	assert.ErrorIs(t, err, ErrValidation)

	in = profileOf(t, f, id)
	in.Birthday = "03/02/1990"
	_, err = f.svc.EditProfile(ctx, id, in)
	assert.ErrorIs(t, err, ErrValidation)

	in = profileOf(t, f, id)
	in.Username = ""
	_, err = f.svc.EditProfile(ctx, id, in)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestEditProfile_EmailChangeResetsVerification(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "alice", "alice@example.com", "secret1")
	firstToken := tokenFromLink(t, f.notifier.last(t).Link)
	_, err := f.svc.VerifyEmail(ctx, firstToken)
	require.NoError(t, err)

	in := profileOf(t, f, id)
	in.Email = "Alice.New@example.com"
	result, err := f.svc.EditProfile(ctx, id, in)
	require.NoError(t, err)
	assert.True(t, result.EmailChanged)
	assert.True(t, result.Delivery.Delivered)

	stored, err := f.st.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "alice.new@example.com", stored.Email)
	assert.False(t, stored.EmailVerified)
	require.NotNil(t, stored.VerificationToken)
	assert.NotEqual(t, firstToken, *stored.VerificationToken)

	mail := f.notifier.last(t)
	assert.Equal(t, "alice.new@example.com", mail.To)
	assert.Equal(t, *stored.VerificationToken, tokenFromLink(t, mail.Link))
}

func TestEditProfile_Conflicts(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "alice", "alice@example.com", "secret1")
	f.register(t, "bob", "bob@example.com", "secret1")

	in := profileOf(t, f, id)
	in.Username = "bob"
	_, err := f.svc.EditProfile(ctx, id, in)
	assert.ErrorIs(t, err, ErrConflict)

	in = profileOf(t, f, id)
	in.Email = "BOB@example.com"
	_, err = f.svc.EditProfile(ctx, id, in)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestEditProfile_Password(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "alice", "alice@example.com", "secret1")

	in := profileOf(t, f, id)
	in.CurrentPassword = "wrong-one"
	in.NewPassword = "newpass1"
	in.ConfirmPassword = "newpass1"
	_, err := f.svc.EditProfile(ctx, id, in)
	require.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "目前密碼錯誤", err.Error())

	in.CurrentPassword = "secret1"
	in.ConfirmPassword = "newpass2"
	_, err = f.svc.EditProfile(ctx, id, in)
	require.ErrorIs(t, err, ErrValidation)

	in.ConfirmPassword = "newpass1"
	result, err := f.svc.EditProfile(ctx, id, in)
	require.NoError(t, err)
	assert.True(t, result.Changed)

	_, err = f.svc.Login(ctx, "alice", "newpass1")
	assert.NoError(t, err)
}

func TestEditProfile_KeepsRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	id := f.register(t, "alice", "alice@example.com", "secret1")

	in := profileOf(t, f, id)
	in.Address = "台北市"
	result, err := f.svc.EditProfile(ctx, id, in)
	require.NoError(t, err)
	assert.Equal(t, constants.RoleRegular, result.User.Role)
}

func TestProfile_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Profile(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}
