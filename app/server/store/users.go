package store

import (
	"account-portal/app/server/constants"
	"account-portal/app/server/models"
	"context"
	"fmt"
	"github.com/alexedwards/argon2id"
	"go.uber.org/zap"
	"strings"
	"time"
)

func (s *Store) first(ctx context.Context, query string, args ...interface{}) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (s *Store) GetByID(ctx context.Context, id uint) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.first(ctx, "username = ?", username)
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *Store) GetByVerificationToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return s.first(ctx, "verification_token = ?", token)
}

func (s *Store) GetByResetToken(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	return s.first(ctx, "reset_token = ?", token)
}

// FindByLogin 以用户名或邮箱加密码查找用户，任一不符都返回 ErrNotFound
func (s *Store) FindByLogin(ctx context.Context, identifier string, password string) (*models.User, error) {
	// 用户名可能恰好等于另一个用户的邮箱，所以逐个比对
	var candidates []models.User
	if err := s.db.WithContext(ctx).
		Where("username = ? OR email = ?", identifier, strings.ToLower(identifier)).
		Order("id ASC").
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("find login candidates: %w", err)
	}

	for i := range candidates {
		match, _, err := argon2id.CheckHash(password, candidates[i].PasswordHash)
		if err != nil {
			s.l.Error("failed to check password", zap.Uint("id", candidates[i].ID), zap.Error(err))
			continue
		}
		if match {
			return &candidates[i], nil
		}
	}

	return nil, ErrNotFound
}

func (s *Store) exists(ctx context.Context, column string, value string, excludeID uint) (bool, error) {
	var count int64
	query := s.db.WithContext(ctx).Model(&models.User{}).Where(column+" = ?", value)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("count %s: %w", column, err)
	}
	return count > 0, nil
}

// UsernameTaken 检查用户名是否已被使用，excludeID 非零时排除该用户自己
func (s *Store) UsernameTaken(ctx context.Context, username string, excludeID uint) (bool, error) {
	return s.exists(ctx, "username", username, excludeID)
}

func (s *Store) EmailTaken(ctx context.Context, email string, excludeID uint) (bool, error) {
	return s.exists(ctx, "email", email, excludeID)
}

func (s *Store) Create(ctx context.Context, user *models.User) error {
	if user.Role == "" {
		user.Role = constants.RoleRegular
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		return translate(err)
	}
	return nil
}

// Update 只更新 fields 中出现的字段
func (s *Store) Update(ctx context.Context, id uint, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	fields["updated_at"] = time.Now()

	result := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.invalidate(ctx, id)
	return nil
}

// consume 只在 query 条件仍然成立时更新，条件不成立返回 ErrNotFound
func (s *Store) consume(ctx context.Context, id uint, fields map[string]interface{}, query string, args ...interface{}) error {
	fields["updated_at"] = time.Now()

	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", id).
		Where(query, args...).
		Updates(fields)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.invalidate(ctx, id)
	return nil
}

// ConsumeResetToken 写入 fields 并清除重设 token ；token 已被使用、替换或过期时返回 ErrNotFound
func (s *Store) ConsumeResetToken(ctx context.Context, id uint, token string, now time.Time, fields map[string]interface{}) error {
	if token == "" {
		return ErrNotFound
	}
	fields["reset_token"] = nil
	fields["reset_token_expires"] = nil
	return s.consume(ctx, id, fields, "reset_token = ? AND reset_token_expires > ?", token, now)
}

// ConsumeVerificationToken 同上，作用于验证 token ；没有期限的旧 token 视为有效
func (s *Store) ConsumeVerificationToken(ctx context.Context, id uint, token string, now time.Time, fields map[string]interface{}) error {
	if token == "" {
		return ErrNotFound
	}
	fields["verification_token"] = nil
	fields["verification_token_expires"] = nil
	return s.consume(ctx, id, fields,
		"verification_token = ? AND (verification_token_expires IS NULL OR verification_token_expires >= ?)", token, now)
}

// Delete 删除用户，actorID 为当前操作者，不能删除自己
func (s *Store) Delete(ctx context.Context, id uint, actorID uint) error {
	if id == actorID {
		return ErrSelfDelete
	}

	result := s.db.WithContext(ctx).Delete(&models.User{}, id)
	if result.Error != nil {
		return translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.invalidate(ctx, id)
	return nil
}

// List 分页列出用户，showAll 时忽略分页
func (s *Store) List(ctx context.Context, showAll bool, page int, limit int) ([]models.User, int64, error) {
	var (
		users      []models.User
		usersCount int64
	)

	queryBase := s.db.WithContext(ctx).Model(&models.User{}).Order("id ASC")
	if !showAll {
		queryBase = queryBase.Limit(limit).Offset(page * limit)
	}

	if err := queryBase.Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}
	if err := s.db.WithContext(ctx).Model(&models.User{}).Count(&usersCount).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}

	return users, usersCount, nil
}

func (s *Store) All(ctx context.Context) ([]models.User, error) {
	users, _, err := s.List(ctx, true, 0, 0)
	return users, err
}
