package spreadsheet

// Columns 是导入导出的固定列顺序，前十列为导入契约，最后两列只在导出时填写
var Columns = []string{
	"id", "username", "email", "password", "email_verified",
	"birthday", "phone", "address", "work_region", "role",
	"created_at", "updated_at",
}

// ImportColumns 导入时读取的列数
const ImportColumns = 10

const (
	ColID = iota
	ColUsername
	ColEmail
	ColPassword
	ColEmailVerified
	ColBirthday
	ColPhone
	ColAddress
	ColWorkRegion
	ColRole
	ColCreatedAt
	ColUpdatedAt
)

const (
	SheetName   = "users"
	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	Extension   = ".xlsx"
)
