package config

type Config struct {
	System struct {
		IsProd                bool   // 是否为生产环境
		Listen                string // 监听地址
		PublicURL             string // 对外访问地址，用于邮件中的链接；为空时按请求推断
		DatabasePath          string // SQLite 数据库文件位置
		DBConnectionString    string // Postgres 数据库的连接字符串，设置后优先于 SQLite
		RedisConnectionString string // Redis 数据库的连接字符串，可选，用于缓存 API 用户信息
	}
	Security struct {
		SessionSecretKey   string // 会话 cookie 的签名密钥
		SignatureSecretKey string // 签名密钥，用于签发 API 的 JWT ，更新会导致旧有令牌失效
	}
	Mail  Mail
	Admin struct {
		// 数据库中没有任何用户时，用这组信息创建初始管理员
		Username string
		Email    string
		Password string
	}
}

// Mail 是 SMTP 发信设置
type Mail struct {
	Server   string
	Port     int
	UseTLS   bool
	Username string // 用户名或密码为空时不实际发送，只记录日志
	Password string
	From     string
}
