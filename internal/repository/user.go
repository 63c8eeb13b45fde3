package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/user/cinehub/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrDuplicateUser 邮箱或用户名撞唯一索引
// 预检查和写入之间存在并发窗口，插入时兜底识别
var ErrDuplicateUser = errors.New("邮箱或用户名已被使用")

// isUniqueViolation 识别唯一索引冲突（postgres 23505 / sqlite UNIQUE）
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key value") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户
func (r *UserRepository) Create(username, email, password string, role model.Role) (*model.User, error) {
	// 密码哈希
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     strings.TrimSpace(username),
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}

	if err := r.db.Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	return user, nil
}

// FindByEmail 根据邮箱查找用户（不区分是否停用）
func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindActiveByEmail 根据邮箱查找活跃用户（登录用）
func (r *UserRepository) FindActiveByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Where("email = ? AND is_active = ?", strings.ToLower(strings.TrimSpace(email)), true).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByUsername 根据用户名查找用户
func (r *UserRepository) FindByUsername(username string) (*model.User, error) {
	var user model.User
	err := r.db.Where("user_name = ?", strings.TrimSpace(username)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// FindByID 根据 ID 查找用户
func (r *UserRepository) FindByID(id int) (*model.User, error) {
	var user model.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &user, nil
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(user *model.User, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	return err == nil
}

// UsernameTaken 检查用户名是否已被其他用户占用
func (r *UserRepository) UsernameTaken(username string, excludeID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("user_name = ? AND id <> ?", strings.TrimSpace(username), excludeID).
		Count(&count).Error
	return count > 0, err
}

// EmailTaken 检查邮箱是否已被其他用户占用
func (r *UserRepository) EmailTaken(email string, excludeID int) (bool, error) {
	var count int64
	err := r.db.Model(&model.User{}).
		Where("email = ? AND id <> ?", strings.ToLower(strings.TrimSpace(email)), excludeID).
		Count(&count).Error
	return count > 0, err
}

// Update 按字段更新用户，返回更新后的记录
func (r *UserRepository) Update(userID int, updates map[string]interface{}) (*model.User, error) {
	if err := r.db.Model(&model.User{}).Where("id = ?", userID).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.FindByID(userID)
}

// UpdatePassword 更新密码
func (r *UserRepository) UpdatePassword(userID int, newPassword string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return r.db.Model(&model.User{}).Where("id = ?", userID).
		Update("password_hash", string(hash)).Error
}

// Deactivate 软删除用户
func (r *UserRepository) Deactivate(userID int) (bool, error) {
	res := r.db.Model(&model.User{}).Where("id = ?", userID).Update("is_active", false)
	return res.RowsAffected > 0, res.Error
}

// UserQuery 管理端用户列表查询参数
type UserQuery struct {
	Search   string
	Role     model.Role
	IsActive *bool
	Page     int
	Limit    int
}

// List 管理端用户列表（搜索/角色/状态过滤 + 分页）
func (r *UserRepository) List(q UserQuery) ([]*model.User, int64, error) {
	tx := r.db.Model(&model.User{})

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where("LOWER(user_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if q.Role != "" {
		tx = tx.Where("role = ?", q.Role)
	}
	if q.IsActive != nil {
		tx = tx.Where("is_active = ?", *q.IsActive)
	}

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var users []*model.User
	err := tx.Order("created_at DESC").
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&users).Error
	return users, total, err
}

// CountSince 统计某时间点之后注册的用户数
func (r *UserRepository) CountSince(after time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&model.User{}).Where("created_at >= ?", after).Count(&count).Error
	return count, err
}

// Stats 用户维度统计
func (r *UserRepository) Stats() (*model.UserStats, error) {
	var stats model.UserStats
	err := r.db.Model(&model.User{}).
		Select(
			"COUNT(*) AS total_users, "+
				"COALESCE(SUM(CASE WHEN is_active = ? THEN 1 ELSE 0 END), 0) AS active_users, "+
				"COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0) AS admin_users, "+
				"COALESCE(SUM(CASE WHEN role = ? THEN 1 ELSE 0 END), 0) AS regular_users",
			true, model.RoleAdmin, model.RoleUser).
		Scan(&stats).Error
	return &stats, err
}
