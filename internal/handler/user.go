package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/utils"
)

// Register 用户注册
func (h *Handler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, formatValidationErrors(err))
		return
	}

	// 邮箱、用户名唯一性检查
	if existing, err := h.Repos.User.FindByEmail(req.Email); err != nil {
		utils.InternalServerError(c, err.Error())
		return
	} else if existing != nil {
		utils.BadRequest(c, "邮箱已被使用")
		return
	}
	if existing, err := h.Repos.User.FindByUsername(req.UserName); err != nil {
		utils.InternalServerError(c, err.Error())
		return
	} else if existing != nil {
		utils.BadRequest(c, "用户名已被使用")
		return
	}

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}

	user, err := h.Repos.User.Create(req.UserName, req.Email, req.Password, role)
	// 预检查和写入之间被并发注册抢先时撞唯一索引
	if errors.Is(err, repository.ErrDuplicateUser) {
		utils.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.Created(c, "注册成功", gin.H{
		"id":        user.ID,
		"userName":  user.Username,
		"email":     user.Email,
		"role":      user.Role,
		"createdAt": user.CreatedAt,
	})
}

// Login 用户登录，成功后签发 API 令牌
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, formatValidationErrors(err))
		return
	}

	user, err := h.Repos.User.FindActiveByEmail(req.Email)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	// 用户不存在和密码错误返回同一句话，不暴露哪一步失败
	if user == nil || !h.Repos.User.CheckPassword(user, req.Password) {
		utils.Unauthorized(c, "邮箱或密码错误")
		return
	}

	token, err := h.Repos.Session.Issue(user.ID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "登录成功", gin.H{
		"id":       user.ID,
		"userName": user.Username,
		"email":    user.Email,
		"role":     user.Role,
		"apiKey":   token,
	})
}

// Logout 退出登录，撤销当前令牌
func (h *Handler) Logout(c *gin.Context) {
	token := middleware.CurrentToken(c)
	if err := h.Repos.Session.Revoke(token); err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "已退出登录", nil)
}

// VerifyToken 校验令牌有效性，返回令牌归属的用户
func (h *Handler) VerifyToken(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	utils.SuccessWithMessage(c, "令牌有效", gin.H{
		"id":       user.ID,
		"userName": user.Username,
		"email":    user.Email,
		"role":     user.Role,
	})
}

// GetProfile 获取当前用户资料及互动统计
func (h *Handler) GetProfile(c *gin.Context) {
	current, _ := middleware.CurrentUser(c)

	favoritesCount, err := h.Repos.Favorite.CountByUser(current.ID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	historyCount, err := h.Repos.History.CountByUser(current.ID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{
		"user":              current,
		"favoritesCount":    favoritesCount,
		"watchHistoryCount": historyCount,
	})
}

// UpdateProfile 更新当前用户资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	current, _ := middleware.CurrentUser(c)

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, formatValidationErrors(err))
		return
	}

	updates := map[string]interface{}{}
	if req.UserName != "" && req.UserName != current.Username {
		taken, err := h.Repos.User.UsernameTaken(req.UserName, current.ID)
		if err != nil {
			utils.InternalServerError(c, err.Error())
			return
		}
		if taken {
			utils.BadRequest(c, "用户名已被使用")
			return
		}
		updates["user_name"] = req.UserName
	}
	if req.Avatar != "" {
		updates["profile_avatar"] = req.Avatar
	}
	if req.Phone != "" {
		updates["profile_phone"] = req.Phone
	}
	if req.DateOfBirth != "" {
		dob, _ := time.Parse("2006-01-02", req.DateOfBirth)
		updates["profile_date_of_birth"] = dob
	}

	if len(updates) == 0 {
		utils.SuccessWithMessage(c, "资料未变更", current)
		return
	}

	updated, err := h.Repos.User.Update(current.ID, updates)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "资料更新成功", updated)
}
