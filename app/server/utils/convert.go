package utils

// NilIfEmpty 把空字符串转换成 nil ，用于可空的数据库字段
func NilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func P[T any](v T) *T {
	return &v
}
