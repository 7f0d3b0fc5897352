package constants

import "time"

const (
	CacheKeyUserInfo = "account:user:info:%d"
)

const (
	CacheExpireUserInfo = 1 * time.Hour
)
