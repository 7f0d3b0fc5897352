package account

import (
	"account-portal/app/server/models"
	"account-portal/app/server/utils"
	"context"
	"fmt"
	"go.uber.org/zap"
)

// UserPage 是管理页面的一页用户
type UserPage struct {
	Users   []models.User
	Total   int64
	Page    int // 从 1 开始
	MaxPage int64
	ShowAll bool
}

// AdminList 分页列出用户，page 与 limit 都为 0 时列出全部
func (s *Service) AdminList(ctx context.Context, page *uint, limit *uint) (*UserPage, error) {
	showAll, parsedPage, parsedLimit := parsePagination(page, limit)

	users, count, err := s.st.List(ctx, showAll, parsedPage, parsedLimit)
	if err != nil {
		return nil, err
	}

	return &UserPage{
		Users:   users,
		Total:   count,
		Page:    parsedPage + 1,
		MaxPage: calcMaxPage(count, showAll, parsedLimit),
		ShowAll: showAll,
	}, nil
}

func (s *Service) AdminGet(ctx context.Context, id uint) (*models.User, error) {
	return s.Profile(ctx, id)
}

// AdminAdd 由管理员直接建立用户，身分由表单指定
func (s *Service) AdminAdd(ctx context.Context, in AdminUserInput) (*models.User, error) {
	in.normalize()
	if err := in.validateAdd(); err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, in.Username, in.Email, 0, "使用者名稱或電子信箱已存在"); err != nil {
		return nil, err
	}

	digest, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: digest,
		Role:         in.Role,
		Birthday:     utils.NilIfEmpty(in.Birthday),
		Phone:        utils.NilIfEmpty(in.Phone),
		Address:      utils.NilIfEmpty(in.Address),
		WorkRegion:   utils.NilIfEmpty(in.WorkRegion),
	}
	if err = s.st.Create(ctx, user); err != nil {
		return nil, mapStoreError(err, "使用者名稱或電子信箱已存在", "")
	}

	s.l.Info("user added by admin", zap.Uint("id", user.ID), zap.String("role", user.Role))
	return user, nil
}

// AdminEdit 覆盖用户资料，密码留空表示不修改
func (s *Service) AdminEdit(ctx context.Context, id uint, in AdminUserInput) (*EditResult, error) {
	in.normalize()

	user, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}
	if err = in.validateEdit(); err != nil {
		return nil, err
	}

	const conflictMessage = "使用者名稱或電子信箱已被其他帳號使用"
	if err = s.ensureUnique(ctx, in.Username, in.Email, user.ID, conflictMessage); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{
		"username":    in.Username,
		"email":       in.Email,
		"role":        in.Role,
		"birthday":    utils.NilIfEmpty(in.Birthday),
		"phone":       utils.NilIfEmpty(in.Phone),
		"address":     utils.NilIfEmpty(in.Address),
		"work_region": utils.NilIfEmpty(in.WorkRegion),
	}
	if in.Password != "" {
		digest, err := s.hash(in.Password)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = digest
	}

	return s.applyEdit(ctx, user, fields, in.Email != user.Email, conflictMessage)
}

// AdminDelete 删除用户，actorID 为当前登录的管理员
func (s *Service) AdminDelete(ctx context.Context, id uint, actorID uint) error {
	if id == 0 {
		return invalid("無效的刪除請求")
	}

	if err := s.st.Delete(ctx, id, actorID); err != nil {
		return mapStoreError(err, "", "無此使用者")
	}

	s.l.Info("user deleted", zap.Uint("id", id), zap.Uint("actor", actorID))
	return nil
}

func (s *Service) ensureUnique(ctx context.Context, username string, email string, excludeID uint, message string) error {
	usernameTaken, err := s.st.UsernameTaken(ctx, username, excludeID)
	if err != nil {
		return fmt.Errorf("check username: %w", err)
	}
	emailTaken, err := s.st.EmailTaken(ctx, email, excludeID)
	if err != nil {
		return fmt.Errorf("check email: %w", err)
	}
	if usernameTaken || emailTaken {
		return conflict(message)
	}
	return nil
}
