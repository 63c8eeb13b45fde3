package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/utils"
)

// 上下文键
const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

// ExtractToken 从 Authorization Bearer 或 x-api-key 头提取令牌
func ExtractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return c.GetHeader("x-api-key")
}

// RequireAuth 必须登录中间件
// 令牌必须能解析到一个活跃用户，解析结果挂到请求上下文
func RequireAuth(sessions *repository.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		if token == "" {
			utils.Unauthorized(c, "未提供令牌")
			c.Abort()
			return
		}

		user, err := sessions.ResolveUser(token)
		if err != nil {
			utils.InternalServerError(c, err.Error())
			c.Abort()
			return
		}
		if user == nil {
			utils.Unauthorized(c, "令牌无效或已失效")
			c.Abort()
			return
		}

		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// OptionalAuth 可选登录中间件（解析失败不拦截请求）
func OptionalAuth(sessions *repository.SessionRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := ExtractToken(c); token != "" {
			if user, err := sessions.ResolveUser(token); err == nil && user != nil {
				c.Set(ContextUserKey, user)
				c.Set(ContextTokenKey, token)
			}
		}
		c.Next()
	}
}

// RequireUser 任意已认证角色均可通过
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}
		if !user.Role.Valid() {
			utils.Forbidden(c, "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin 管理员权限中间件
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			utils.Unauthorized(c, "")
			c.Abort()
			return
		}

		switch user.Role {
		case model.RoleAdmin:
			c.Next()
		case model.RoleUser:
			utils.Forbidden(c, "需要管理员权限")
			c.Abort()
		default:
			utils.Forbidden(c, "未知角色")
			c.Abort()
		}
	}
}

// CurrentUser 从上下文获取当前用户
func CurrentUser(c *gin.Context) (*model.User, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*model.User)
	return user, ok
}

// CurrentToken 从上下文获取当前令牌（未登录返回空串）
func CurrentToken(c *gin.Context) string {
	if token, exists := c.Get(ContextTokenKey); exists {
		return token.(string)
	}
	return ""
}
