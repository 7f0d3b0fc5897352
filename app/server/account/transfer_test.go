package account

import (
	"account-portal/app/server/constants"
	"account-portal/app/server/models"
	"account-portal/app/server/spreadsheet"
	"account-portal/app/server/utils"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workbook(t *testing.T, rows ...[]interface{}) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, spreadsheet.Write(&buf, rows))
	return &buf
}

func seedUser(t *testing.T, f *fixture, id uint, username string, email string, password string) *models.User {
	t.Helper()
	digest, err := argon2id.CreateHash(password, testHashParams)
	require.NoError(t, err)
	user := &models.User{ID: id, Username: username, Email: email, PasswordHash: digest}
	require.NoError(t, f.st.Create(context.Background(), user))
	return user
}

func TestImport_UpdateKeepsPasswordAndInsertGeneratesOne(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	existing := seedUser(t, f, 7, "old-name", "old@example.com", "secret1")

	report, err := f.svc.Import(ctx, workbook(t,
		[]interface{}{7, "new-name", "New@Example.com", "", "1", "1990-01-02", "0900", "addr", "雲嘉南", "管理者"},
		[]interface{}{"", "fresh", "fresh@example.com", "", "0", "", "", "", "", "regular"},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 1, report.Updated)
	assert.Empty(t, report.Skipped)

	updated, err := f.st.GetByID(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Username)
	assert.Equal(t, "new@example.com", updated.Email)
	assert.True(t, updated.EmailVerified)
	assert.Equal(t, "1990-01-02", utils.Deref(updated.Birthday))
	assert.Equal(t, "雲嘉南", utils.Deref(updated.WorkRegion))
	assert.Equal(t, constants.RoleAdmin, updated.Role)
	assert.Equal(t, existing.PasswordHash, updated.PasswordHash)

	inserted, err := f.st.GetByUsername(ctx, "fresh")
	require.NoError(t, err)
	assert.NotEmpty(t, inserted.PasswordHash)
	assert.False(t, inserted.EmailVerified)
	assert.Equal(t, constants.RoleRegular, inserted.Role)
}

func TestImport_PasswordColumn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedUser(t, f, 3, "alice", "alice@example.com", "secret1")

	_, err := f.svc.Import(ctx, workbook(t,
		[]interface{}{3, "alice", "alice@example.com", "changed1", "0", "", "", "", "", ""},
		[]interface{}{"", "bob", "bob@example.com", "bobpass1", "0", "", "", "", "", ""},
	))
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, "alice", "changed1")
	assert.NoError(t, err)
	_, err = f.svc.Login(ctx, "bob", "bobpass1")
	assert.NoError(t, err)
}

func TestImport_SkipsAndReportsBadRows(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	seedUser(t, f, 1, "alice", "alice@example.com", "secret1")

	report, err := f.svc.Import(ctx, workbook(t,
		[]interface{}{"", "", "nobody@example.com", "", "", "", "", "", "", ""},
		[]interface{}{"", "alice", "another@example.com", "", "", "", "", "", "", ""},
		[]interface{}{"", "carol", "carol@example.com", "", "", "", "", "", "火星", ""},
		[]interface{}{"", "dave", "dave@example.com", "", "", "", "", "", "", "root"},
		[]interface{}{"", "erin", "erin@example.com", "", "", "not-a-date", "", "", "", ""},
		[]interface{}{"", "frank", "frank@example.com", "", "", "", "", "", "", ""},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	assert.Equal(t, 0, report.Updated)
	require.Len(t, report.Skipped, 5)

	rows := make([]int, 0, len(report.Skipped))
	for _, s := range report.Skipped {
		rows = append(rows, s.Row)
		assert.NotEmpty(t, s.Reason)
	}
	assert.Equal(t, []int{2, 3, 4, 5, 6}, rows)

	_, err = f.st.GetByUsername(ctx, "frank")
	assert.NoError(t, err)
}

func TestImport_DuplicateWithinFile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	report, err := f.svc.Import(ctx, workbook(t,
		[]interface{}{"", "alice", "alice@example.com", "", "", "", "", "", "", ""},
		[]interface{}{"", "alice", "alice2@example.com", "", "", "", "", "", "", ""},
	))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Added)
	require.Len(t, report.Skipped, 1)
	assert.Equal(t, 3, report.Skipped[0].Row)
}

func TestImport_NotAWorkbook(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.Import(context.Background(), strings.NewReader("id,username\n1,alice\n"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestExport_RoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	alice := seedUser(t, f, 1, "alice", "alice@example.com", "secret1")
	require.NoError(t, f.st.Update(ctx, alice.ID, map[string]interface{}{
		"email_verified": true,
		"phone":          "0911",
		"work_region":    "桃竹苗",
	}))
	seedUser(t, f, 2, "bob", "bob@example.com", "secret1")

	var buf bytes.Buffer
	require.NoError(t, f.svc.Export(ctx, &buf))

	rows, err := spreadsheet.Read(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "1", rows[0].Get(spreadsheet.ColID))
	assert.Equal(t, "alice", rows[0].Get(spreadsheet.ColUsername))
	assert.Equal(t, "", rows[0].Get(spreadsheet.ColPassword))
	assert.Equal(t, "1", rows[0].Get(spreadsheet.ColEmailVerified))
	assert.Equal(t, "0911", rows[0].Get(spreadsheet.ColPhone))
	assert.Equal(t, "桃竹苗", rows[0].Get(spreadsheet.ColWorkRegion))
	assert.Equal(t, "0", rows[1].Get(spreadsheet.ColEmailVerified))

	// 导出的文件可以直接导入，所有行都是更新
	report, err := f.svc.Import(ctx, bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, 0, report.Added)
	assert.Equal(t, 2, report.Updated)
	assert.Empty(t, report.Skipped)

	_, err = f.svc.Login(ctx, "alice", "secret1")
	assert.NoError(t, err)
}

func TestExportFilename(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "users_export_20240501_120000.xlsx", f.svc.ExportFilename())
}

func TestParseHelpers(t *testing.T) {
	assert.EqualValues(t, 7, parseID("7"))
	assert.EqualValues(t, 7, parseID("7.0"))
	assert.EqualValues(t, 0, parseID("abc"))
	assert.EqualValues(t, 0, parseID(""))

	assert.True(t, parseBool("TRUE"))
	assert.True(t, parseBool("1"))
	assert.False(t, parseBool("0"))

	v, ok := parseBirthday("1990/1/2")
	assert.True(t, ok)
	assert.Equal(t, "1990-01-02", v)

	role, ok := parseRole("一般使用者")
	assert.True(t, ok)
	assert.Equal(t, constants.RoleRegular, role)
	_, ok = parseRole("owner")
	assert.False(t, ok)
}
