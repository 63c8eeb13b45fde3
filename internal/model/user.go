package model

import (
	"time"
)

// Role 用户角色（封闭枚举）
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid 校验角色是否在枚举范围内
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin:
		return true
	}
	return false
}

// Profile 用户资料子字段
type Profile struct {
	Avatar      string     `json:"avatar"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"dateOfBirth,omitempty"`
}

// User 用户模型
type User struct {
	ID           int       `json:"id"`
	Username     string    `json:"userName" gorm:"column:user_name;uniqueIndex;size:30"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:254"`
	PasswordHash string    `json:"-" gorm:"column:password_hash"`
	Role         Role      `json:"role" gorm:"size:10;index;default:user"`
	Profile      Profile   `json:"profile" gorm:"embedded;embeddedPrefix:profile_"`
	IsActive     bool      `json:"isActive" gorm:"index"`
	CreatedAt    time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Session 登录会话，一行对应一个有效的 API Key
// Token 不设过期时间，在登出、重置密码、管理员停用
// 或（单会话策略下）再次登录时被删除
type Session struct {
	ID        int       `json:"id"`
	UserID    int       `json:"userId" gorm:"index;not null"`
	Token     string    `json:"-" gorm:"uniqueIndex;size:80"`
	CreatedAt time.Time `json:"createdAt"`
}
