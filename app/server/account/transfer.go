package account

import (
	"account-portal/app/server/constants"
	"account-portal/app/server/models"
	"account-portal/app/server/spreadsheet"
	"account-portal/app/server/store"
	"account-portal/app/server/utils"
	"context"
	"errors"
	"fmt"
	"go.uber.org/zap"
	"io"
	"strconv"
	"strings"
	"time"
)

// SkippedRow 是导入时略过的一行，Row 为表格中的行号
type SkippedRow struct {
	Row    int
	Reason string
}

type ImportReport struct {
	Added   int
	Updated int
	Skipped []SkippedRow
}

// skipRow 表示这一行数据有问题，不影响其他行
type skipRow struct {
	reason string
}

func (e *skipRow) Error() string {
	return e.reason
}

// importRow 是解析后的一行
type importRow struct {
	id         uint
	username   string
	email      string
	password   string
	verified   bool
	birthday   string
	phone      string
	address    string
	workRegion string
	role       string
}

// Import 读取 xlsx 并逐行新增或更新用户。
// 整个导入在同一个事务内，每行使用一个 savepoint ，单行失败只回滚该行
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportReport, error) {
	rows, err := spreadsheet.Read(r)
	if err != nil {
		s.l.Warn("failed to read import file", zap.Error(err))
		return nil, invalid("無法讀取 Excel 檔案，請確認格式為 .xlsx")
	}

	report := &ImportReport{}
	err = s.st.Transaction(ctx, func(tx *store.Store) error {
		for _, row := range rows {
			parsed, err := parseImportRow(row)
			if err != nil {
				report.Skipped = append(report.Skipped, SkippedRow{Row: row.Number, Reason: err.Error()})
				continue
			}

			var added bool
			err = tx.Transaction(ctx, func(rowTx *store.Store) error {
				var err error
				added, err = s.importOne(ctx, rowTx, parsed)
				return err
			})

			var skip *skipRow
			switch {
			case err == nil && added:
				report.Added++
			case err == nil:
				report.Updated++
			case errors.As(err, &skip):
				report.Skipped = append(report.Skipped, SkippedRow{Row: row.Number, Reason: skip.reason})
			case errors.Is(err, store.ErrConflict):
				report.Skipped = append(report.Skipped, SkippedRow{Row: row.Number, Reason: "使用者名稱或電子信箱已被其他帳號使用"})
			default:
				return fmt.Errorf("import row %d: %w", row.Number, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.l.Info("users imported",
		zap.Int("added", report.Added),
		zap.Int("updated", report.Updated),
		zap.Int("skipped", len(report.Skipped)),
	)
	return report, nil
}

// importOne 写入一行，返回是否为新增
func (s *Service) importOne(ctx context.Context, tx *store.Store, row *importRow) (bool, error) {
	var existing *models.User
	if row.id != 0 {
		user, err := tx.GetByID(ctx, row.id)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return false, err
		}
		existing = user
	}

	var excludeID uint
	if existing != nil {
		excludeID = existing.ID
	}
	if taken, err := tx.UsernameTaken(ctx, row.username, excludeID); err != nil {
		return false, err
	} else if taken {
		return false, &skipRow{reason: "使用者名稱已被其他帳號使用"}
	}
	if taken, err := tx.EmailTaken(ctx, row.email, excludeID); err != nil {
		return false, err
	} else if taken {
		return false, &skipRow{reason: "電子信箱已被其他帳號使用"}
	}

	if existing != nil {
		fields := map[string]interface{}{
			"username":       row.username,
			"email":          row.email,
			"email_verified": row.verified,
			"birthday":       utils.NilIfEmpty(row.birthday),
			"phone":          utils.NilIfEmpty(row.phone),
			"address":        utils.NilIfEmpty(row.address),
			"work_region":    utils.NilIfEmpty(row.workRegion),
			"role":           row.role,
		}
		if row.password != "" {
			digest, err := s.hash(row.password)
			if err != nil {
				return false, err
			}
			fields["password_hash"] = digest
		}
		return false, tx.Update(ctx, existing.ID, fields)
	}

	password := row.password
	if password == "" {
		// 密码栏位不可为空，给一个随机密码，用户可以通过忘记密码重设
		generated, err := s.newToken()
		if err != nil {
			return false, fmt.Errorf("generate password: %w", err)
		}
		password = generated
	}
	digest, err := s.hash(password)
	if err != nil {
		return false, err
	}

	return true, tx.Create(ctx, &models.User{
		Username:      row.username,
		Email:         row.email,
		PasswordHash:  digest,
		EmailVerified: row.verified,
		Birthday:      utils.NilIfEmpty(row.birthday),
		Phone:         utils.NilIfEmpty(row.phone),
		Address:       utils.NilIfEmpty(row.address),
		WorkRegion:    utils.NilIfEmpty(row.workRegion),
		Role:          row.role,
	})
}

func parseImportRow(row spreadsheet.Row) (*importRow, error) {
	parsed := &importRow{
		id:         parseID(row.Get(spreadsheet.ColID)),
		username:   row.Get(spreadsheet.ColUsername),
		email:      normalizeEmail(row.Get(spreadsheet.ColEmail)),
		password:   row.Get(spreadsheet.ColPassword),
		verified:   parseBool(row.Get(spreadsheet.ColEmailVerified)),
		phone:      row.Get(spreadsheet.ColPhone),
		address:    row.Get(spreadsheet.ColAddress),
		workRegion: row.Get(spreadsheet.ColWorkRegion),
	}

	if parsed.username == "" || parsed.email == "" {
		return nil, &skipRow{reason: "缺少使用者名稱或電子信箱"}
	}

	birthday, ok := parseBirthday(row.Get(spreadsheet.ColBirthday))
	if !ok {
		return nil, &skipRow{reason: msgBirthday}
	}
	parsed.birthday = birthday

	if !contains(constants.WorkRegions, parsed.workRegion) {
		return nil, &skipRow{reason: msgWorkRegion}
	}

	role, ok := parseRole(row.Get(spreadsheet.ColRole))
	if !ok {
		return nil, &skipRow{reason: msgRole}
	}
	parsed.role = role

	return parsed, nil
}

// parseID 解析 id 栏，无法解析时视为新增
func parseID(v string) uint {
	if v == "" {
		return 0
	}
	if id, err := strconv.ParseUint(v, 10, 64); err == nil {
		return uint(id)
	}
	// 表格软件有时会把整数存成 7.0
	if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f == float64(uint(f)) {
		return uint(f)
	}
	return 0
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

// parseBirthday 接受 YYYY-MM-DD 或带时间的日期，统一成 YYYY-MM-DD
func parseBirthday(v string) (string, bool) {
	if v == "" {
		return "", true
	}
	for _, layout := range []string{constants.BirthdayLayout, "2006-01-02 15:04:05", "2006/01/02", "2006/1/2", "01-02-06"} {
		if t, err := time.Parse(layout, v); err == nil {
			return t.Format(constants.BirthdayLayout), true
		}
	}
	return "", false
}

// parseRole 接受角色代码或显示名称
func parseRole(v string) (string, bool) {
	if v == "" {
		return constants.RoleRegular, true
	}
	for code, label := range constants.RoleLabels {
		if strings.EqualFold(v, code) || v == label {
			return code, true
		}
	}
	return "", false
}

func contains(values []string, v string) bool {
	for _, value := range values {
		if value == v {
			return true
		}
	}
	return false
}

const exportTimeLayout = "2006-01-02 15:04:05"

// Export 把全部用户写成 xlsx ，密码栏留空
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	users, err := s.st.All(ctx)
	if err != nil {
		return err
	}

	rows := make([][]interface{}, 0, len(users))
	for _, u := range users {
		verified := 0
		if u.EmailVerified {
			verified = 1
		}
		rows = append(rows, []interface{}{
			u.ID,
			u.Username,
			u.Email,
			"",
			verified,
			utils.Deref(u.Birthday),
			utils.Deref(u.Phone),
			utils.Deref(u.Address),
			utils.Deref(u.WorkRegion),
			u.Role,
			u.CreatedAt.Format(exportTimeLayout),
			u.UpdatedAt.Format(exportTimeLayout),
		})
	}

	if err = spreadsheet.Write(w, rows); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// ExportFilename 导出文件名，带上导出时间
func (s *Service) ExportFilename() string {
	return "users_export_" + s.now().Format("20060102_150405") + spreadsheet.Extension
}
