package account

import (
	"account-portal/app/server/constants"
	"account-portal/app/server/models"
	"account-portal/app/server/store"
	"account-portal/app/server/utils"
	"context"
	"errors"
	"fmt"
	"github.com/alexedwards/argon2id"
	"go.uber.org/zap"
	"time"
)

// EditResult 是修改资料的结果
type EditResult struct {
	User         *models.User
	Changed      bool
	EmailChanged bool
	Delivery     Delivery // 只在 EmailChanged 时有意义
}

func (s *Service) Profile(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.st.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, notFound("無此使用者")
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// EditProfile 用户修改自己的资料，不能修改身分
func (s *Service) EditProfile(ctx context.Context, id uint, in ProfileInput) (*EditResult, error) {
	in.normalize()
	if err := in.Validate(); err != nil {
		return nil, err
	}

	user, err := s.Profile(ctx, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Username != user.Username {
		if taken, err := s.st.UsernameTaken(ctx, in.Username, user.ID); err != nil {
			return nil, err
		} else if taken {
			return nil, conflict("使用者名稱已被使用")
		}
		fields["username"] = in.Username
	}
	emailChanged := in.Email != user.Email
	if emailChanged {
		if taken, err := s.st.EmailTaken(ctx, in.Email, user.ID); err != nil {
			return nil, err
		} else if taken {
			return nil, conflict("電子信箱已被使用")
		}
		fields["email"] = in.Email
	}

	if in.NewPassword != "" {
		match, _, err := argon2id.CheckHash(in.CurrentPassword, user.PasswordHash)
		if err != nil {
			return nil, fmt.Errorf("check current password: %w", err)
		}
		if !match {
			return nil, invalid("目前密碼錯誤")
		}
		digest, err := s.hash(in.NewPassword)
		if err != nil {
			return nil, err
		}
		fields["password_hash"] = digest
	}

	setIfChanged(fields, "birthday", user.Birthday, in.Birthday)
	setIfChanged(fields, "phone", user.Phone, in.Phone)
	setIfChanged(fields, "address", user.Address, in.Address)
	setIfChanged(fields, "work_region", user.WorkRegion, in.WorkRegion)

	if len(fields) == 0 {
		return &EditResult{User: user}, nil
	}

	return s.applyEdit(ctx, user, fields, emailChanged, "使用者名稱或電子信箱已被其他帳號使用")
}

// applyEdit 写入修改；邮箱变更时重置验证状态并寄出新的验证信
func (s *Service) applyEdit(ctx context.Context, user *models.User, fields map[string]interface{}, emailChanged bool, conflictMessage string) (*EditResult, error) {
	var token string
	if emailChanged {
		var (
			expires time.Time
			err     error
		)
		token, expires, err = s.issueToken(constants.VerificationTokenDuration)
		if err != nil {
			return nil, err
		}
		fields["email_verified"] = false
		fields["verification_token"] = token
		fields["verification_token_expires"] = expires
	}

	if err := s.st.Update(ctx, user.ID, fields); err != nil {
		return nil, mapStoreError(err, conflictMessage, "無此使用者")
	}

	updated, err := s.Profile(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.l.Info("user updated", zap.Uint("id", user.ID), zap.Bool("emailChanged", emailChanged))

	result := &EditResult{
		User:         updated,
		Changed:      true,
		EmailChanged: emailChanged,
	}
	if emailChanged {
		result.Delivery = s.sendVerification(ctx, updated.Email, updated.Username, token)
	}
	return result, nil
}

func setIfChanged(fields map[string]interface{}, column string, current *string, next string) {
	if utils.Deref(current) == next {
		return
	}
	fields[column] = utils.NilIfEmpty(next)
}
