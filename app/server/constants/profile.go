package constants

const (
	RoleRegular = "regular"
	RoleAdmin   = "admin"
)

// RoleLabels 为页面与导入导出使用的显示名称
var RoleLabels = map[string]string{
	RoleRegular: "一般使用者",
	RoleAdmin:   "管理者",
}

var Roles = []string{RoleRegular, RoleAdmin}

// WorkRegions 工作辖区，空字符串表示未填写
var WorkRegions = []string{"", "北北基", "桃竹苗", "中彰投", "雲嘉南", "高屏"}

// BirthdayLayout 生日统一保存为 YYYY-MM-DD
const BirthdayLayout = "2006-01-02"
