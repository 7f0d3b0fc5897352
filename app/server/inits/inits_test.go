package inits

import (
	"account-portal/app/server/config"
	"account-portal/app/server/constants"
	"account-portal/app/server/models"
	"os"
	"path/filepath"
	"testing"

	"github.com/alexedwards/argon2id"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var configKeys = []string{
	"MODE", "LISTEN", "PUBLIC_URL", "DATABASE_PATH", "DB_CONN", "REDIS_CONN",
	"SECRET_KEY", "JWT_SECRET_KEY",
	"MAIL_SERVER", "MAIL_PORT", "MAIL_USE_TLS", "MAIL_USERNAME", "MAIL_PASSWORD", "MAIL_FROM",
	"ADMIN_USERNAME", "ADMIN_EMAIL", "ADMIN_PASSWORD",
}

// clearEnv 清空配置相关的环境变量，测试结束后恢复
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range configKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestConfig_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET_KEY", "session")
	t.Setenv("JWT_SECRET_KEY", "signing")
	t.Setenv("MAIL_USERNAME", "noreply@example.com")

	cfg, err := Config()
	require.NoError(t, err)

	assert.False(t, cfg.System.IsProd)
	assert.Equal(t, ":1323", cfg.System.Listen)
	assert.Equal(t, "instance/app.db", cfg.System.DatabasePath)
	assert.Empty(t, cfg.System.DBConnectionString)
	assert.Empty(t, cfg.System.RedisConnectionString)
	assert.Equal(t, "session", cfg.Security.SessionSecretKey)
	assert.Equal(t, "signing", cfg.Security.SignatureSecretKey)
	assert.Equal(t, "smtp.gmail.com", cfg.Mail.Server)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.True(t, cfg.Mail.UseTLS)
	assert.Equal(t, "noreply@example.com", cfg.Mail.From)
}

func TestConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("MODE", "Production")
	t.Setenv("PUBLIC_URL", "https://accounts.example.com/")
	t.Setenv("SECRET_KEY", "session")
	t.Setenv("JWT_SECRET_KEY", "signing")
	t.Setenv("MAIL_PORT", "2525")
	t.Setenv("MAIL_USE_TLS", "False")
	t.Setenv("MAIL_FROM", "Portal <portal@example.com>")
	t.Setenv("ADMIN_EMAIL", "  Root@Example.COM ")

	cfg, err := Config()
	require.NoError(t, err)

	assert.True(t, cfg.System.IsProd)
	assert.Equal(t, "https://accounts.example.com", cfg.System.PublicURL)
	assert.Equal(t, 2525, cfg.Mail.Port)
	assert.False(t, cfg.Mail.UseTLS)
	assert.Equal(t, "Portal <portal@example.com>", cfg.Mail.From)
	assert.Equal(t, "root@example.com", cfg.Admin.Email)
}

func TestConfig_Errors(t *testing.T) {
	clearEnv(t)
	_, err := Config()
	assert.ErrorContains(t, err, "SECRET_KEY")

	t.Setenv("SECRET_KEY", "session")
	_, err = Config()
	assert.ErrorContains(t, err, "JWT_SECRET_KEY")

	t.Setenv("JWT_SECRET_KEY", "signing")
	t.Setenv("MAIL_PORT", "smtp")
	_, err = Config()
	assert.ErrorContains(t, err, "MAIL_PORT")
}

func testConfig(t *testing.T) *config.Config {
	cfg := &config.Config{}
	cfg.System.DatabasePath = filepath.Join(t.TempDir(), "nested", "app.db")
	return cfg
}

func TestDB_SeedsAdminOnce(t *testing.T) {
	cfg := testConfig(t)
	cfg.Admin.Username = "root"
	cfg.Admin.Email = "root@example.com"
	cfg.Admin.Password = "rootpass"

	db, err := DB(cfg, zap.NewNop())
	require.NoError(t, err)

	var users []models.User
	require.NoError(t, db.Find(&users).Error)
	require.Len(t, users, 1)
	assert.Equal(t, "root", users[0].Username)
	assert.Equal(t, constants.RoleAdmin, users[0].Role)
	assert.True(t, users[0].EmailVerified)

	match, err := argon2id.ComparePasswordAndHash("rootpass", users[0].PasswordHash)
	require.NoError(t, err)
	assert.True(t, match)

	// 已有用户时不再写入
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	cfg.Admin.Username = "other"
	db, err = DB(cfg, zap.NewNop())
	require.NoError(t, err)
	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDB_NoAdminConfigured(t *testing.T) {
	db, err := DB(testConfig(t), zap.NewNop())
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&models.User{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestRedis(t *testing.T) {
	rdb, err := Redis("")
	assert.NoError(t, err)
	assert.Nil(t, rdb)

	mr := miniredis.RunT(t)
	rdb, err = Redis("redis://" + mr.Addr())
	require.NoError(t, err)
	require.NotNil(t, rdb)
	assert.NoError(t, rdb.Close())

	_, err = Redis("not a url")
	assert.Error(t, err)
}
