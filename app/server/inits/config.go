package inits

import (
	"account-portal/app/server/config"
	"fmt"
	"github.com/joho/godotenv"
	"os"
	"strconv"
	"strings"
)

func Config() (*config.Config, error) {
	// .env 文件是可选的，已有的环境变量不会被覆盖
	_ = godotenv.Load()

	var cfg config.Config
	{
		mode, exist := os.LookupEnv("MODE")
		cfg.System.IsProd = exist && strings.HasPrefix(strings.ToLower(mode), "p")
	}

	if listen, exist := os.LookupEnv("LISTEN"); !exist {
		cfg.System.Listen = ":1323" // 默认监听地址
	} else {
		cfg.System.Listen = listen
	}

	cfg.System.PublicURL = strings.TrimSuffix(os.Getenv("PUBLIC_URL"), "/")

	if dbPath, exist := os.LookupEnv("DATABASE_PATH"); !exist {
		cfg.System.DatabasePath = "instance/app.db"
	} else {
		cfg.System.DatabasePath = dbPath
	}
	cfg.System.DBConnectionString = os.Getenv("DB_CONN")
	cfg.System.RedisConnectionString = os.Getenv("REDIS_CONN")

	if sk, exist := os.LookupEnv("SECRET_KEY"); !exist {
		return nil, fmt.Errorf("SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SessionSecretKey = sk
	}

	if sigsk, exist := os.LookupEnv("JWT_SECRET_KEY"); !exist {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable not set")
	} else {
		cfg.Security.SignatureSecretKey = sigsk
	}

	// 邮件
	if server, exist := os.LookupEnv("MAIL_SERVER"); !exist {
		cfg.Mail.Server = "smtp.gmail.com"
	} else {
		cfg.Mail.Server = server
	}

	if portStr, exist := os.LookupEnv("MAIL_PORT"); !exist {
		cfg.Mail.Port = 587
	} else if port, err := strconv.Atoi(portStr); err != nil {
		return nil, fmt.Errorf("MAIL_PORT should be an integer")
	} else {
		cfg.Mail.Port = port
	}

	if useTLS, exist := os.LookupEnv("MAIL_USE_TLS"); !exist {
		cfg.Mail.UseTLS = true
	} else {
		cfg.Mail.UseTLS = strings.ToLower(useTLS) == "true"
	}

	cfg.Mail.Username = os.Getenv("MAIL_USERNAME")
	cfg.Mail.Password = os.Getenv("MAIL_PASSWORD")
	if from, exist := os.LookupEnv("MAIL_FROM"); !exist {
		cfg.Mail.From = cfg.Mail.Username
	} else {
		cfg.Mail.From = from
	}

	// 初始管理员
	cfg.Admin.Username = os.Getenv("ADMIN_USERNAME")
	cfg.Admin.Email = strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	cfg.Admin.Password = os.Getenv("ADMIN_PASSWORD")

	return &cfg, nil
}
