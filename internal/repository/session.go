package repository

import (
	"errors"

	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/utils"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db           *gorm.DB
	multiSession bool
}

func NewSessionRepository(db *gorm.DB, multiSession bool) *SessionRepository {
	return &SessionRepository{db: db, multiSession: multiSession}
}

// Issue 为用户签发新令牌
// 单会话策略下先撤销该用户的全部旧会话，旧令牌随之失效
func (r *SessionRepository) Issue(userID int) (string, error) {
	token := utils.NewSessionToken(userID)

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if !r.multiSession {
			if err := tx.Where("user_id = ?", userID).Delete(&model.Session{}).Error; err != nil {
				return err
			}
		}
		return tx.Create(&model.Session{UserID: userID, Token: token}).Error
	})
	if err != nil {
		return "", err
	}

	return token, nil
}

// ResolveUser 根据令牌解析活跃用户，未命中返回 nil
func (r *SessionRepository) ResolveUser(token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}

	var user model.User
	err := r.db.Model(&model.User{}).
		Joins("JOIN sessions ON sessions.user_id = users.id").
		Where("sessions.token = ? AND users.is_active = ?", token, true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// Revoke 撤销单个令牌（登出）
func (r *SessionRepository) Revoke(token string) error {
	return r.db.Where("token = ?", token).Delete(&model.Session{}).Error
}

// RevokeAllForUser 撤销用户全部会话（重置密码/停用账号）
func (r *SessionRepository) RevokeAllForUser(userID int) error {
	return r.db.Where("user_id = ?", userID).Delete(&model.Session{}).Error
}

// CountForUser 统计用户当前有效会话数
func (r *SessionRepository) CountForUser(userID int) (int64, error) {
	var count int64
	err := r.db.Model(&model.Session{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// DeleteOrphaned 清理属主已停用的会话，返回清理条数
func (r *SessionRepository) DeleteOrphaned() (int64, error) {
	res := r.db.Where("user_id IN (?)",
		r.db.Model(&model.User{}).Select("id").Where("is_active = ?", false),
	).Delete(&model.Session{})
	return res.RowsAffected, res.Error
}
