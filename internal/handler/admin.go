package handler

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Dashboard 管理端仪表盘，统计项并发查询
// 仪表盘要求实时数据，不走缓存
func (h *Handler) Dashboard(c *gin.Context) {
	var (
		userStats     *model.UserStats
		movieStats    *model.MovieStats
		recentSignups int64
		topMovies     []*model.TopMovie
	)

	g, _ := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		var err error
		userStats, err = h.Repos.User.Stats()
		return err
	})
	g.Go(func() error {
		var err error
		movieStats, err = h.Repos.Movie.Stats()
		return err
	})
	g.Go(func() error {
		var err error
		recentSignups, err = h.Repos.User.CountSince(time.Now().AddDate(0, 0, -7))
		return err
	})
	g.Go(func() error {
		var err error
		topMovies, err = h.Repos.Movie.TopByViews(5)
		return err
	})

	if err := g.Wait(); err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{
		"users":         userStats,
		"movies":        movieStats,
		"recentSignups": recentSignups,
		"topMovies":     topMovies,
	})
}

// AdminUsers 用户列表（管理员）
func (h *Handler) AdminUsers(c *gin.Context) {
	page, limit := parsePagination(c, 20)

	q := repository.UserQuery{
		Search: c.Query("search"),
		Role:   model.Role(c.Query("role")),
		Page:   page,
		Limit:  limit,
	}
	if v := c.Query("isActive"); v != "" {
		active := v == "true"
		q.IsActive = &active
	}

	users, total, err := h.Repos.User.List(q)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithPagination(c, users, utils.NewPagination(page, limit, total))
}

// parseUserID 解析路径中的用户 ID
func parseUserID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		utils.BadRequest(c, "无效的用户 ID")
		return 0, false
	}
	return id, true
}

// AdminUserByID 用户详情及互动统计（管理员）
func (h *Handler) AdminUserByID(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.Repos.User.FindByID(id)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if user == nil {
		utils.NotFound(c, "用户不存在")
		return
	}

	favoritesCount, err := h.Repos.Favorite.CountByUser(id)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	historyCount, err := h.Repos.History.CountByUser(id)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{
		"user":              user,
		"favoritesCount":    favoritesCount,
		"watchHistoryCount": historyCount,
	})
}

// AdminCreateUser 创建用户（管理员，可直接指定角色）
func (h *Handler) AdminCreateUser(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, formatValidationErrors(err))
		return
	}

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
	if errors.Is(err, repository.ErrDuplicateUser) {
		utils.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.Created(c, "用户创建成功", user)
}

// AdminUpdateUser 更新用户（管理员）
// 停用账号时同时撤销该用户的全部会话
func (h *Handler) AdminUpdateUser(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	user, err := h.Repos.User.FindByID(id)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if user == nil {
		utils.NotFound(c, "用户不存在")
		return
	}

	var req AdminUpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, formatValidationErrors(err))
		return
	}

	updates := map[string]interface{}{}
	if req.UserName != "" && req.UserName != user.Username {
		taken, err := h.Repos.User.UsernameTaken(req.UserName, id)
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
	if req.Email != "" && req.Email != user.Email {
		taken, err := h.Repos.User.EmailTaken(req.Email, id)
		if err != nil {
			utils.InternalServerError(c, err.Error())
			return
		}
		if taken {
			utils.BadRequest(c, "邮箱已被使用")
			return
		}
		updates["email"] = req.Email
	}
	if req.Role != "" {
		updates["role"] = req.Role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
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
		utils.SuccessWithMessage(c, "用户未变更", user)
		return
	}

	updated, err := h.Repos.User.Update(id, updates)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	if req.IsActive != nil && !*req.IsActive {
		if err := h.Repos.Session.RevokeAllForUser(id); err != nil {
			utils.InternalServerError(c, err.Error())
			return
		}
	}

	utils.SuccessWithMessage(c, "用户更新成功", updated)
}

// AdminDeleteUser 停用用户（管理员，软删除）并撤销其全部会话
func (h *Handler) AdminDeleteUser(c *gin.Context) {
	current, _ := middleware.CurrentUser(c)

	id, ok := parseUserID(c)
	if !ok {
		return
	}
	if id == current.ID {
		utils.BadRequest(c, "不能删除自己的账号")
		return
	}

	deactivated, err := h.Repos.User.Deactivate(id)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if !deactivated {
		utils.NotFound(c, "用户不存在")
		return
	}

	if err := h.Repos.Session.RevokeAllForUser(id); err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "用户已停用", nil)
}

// AdminResetPassword 重置用户密码（管理员）并撤销其全部会话
func (h *Handler) AdminResetPassword(c *gin.Context) {
	id, ok := parseUserID(c)
	if !ok {
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, formatValidationErrors(err))
		return
	}

	user, err := h.Repos.User.FindByID(id)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if user == nil {
		utils.NotFound(c, "用户不存在")
		return
	}

	if err := h.Repos.User.UpdatePassword(id, req.NewPassword); err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if err := h.Repos.Session.RevokeAllForUser(id); err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "密码已重置", nil)
}
