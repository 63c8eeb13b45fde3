package handler

import (
	"fmt"
	"regexp"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/user/cinehub/internal/model"
)

var registerValidatorsOnce sync.Once

var (
	hasLetter      = regexp.MustCompile(`[A-Za-z]`)
	hasDigit       = regexp.MustCompile(`[0-9]`)
	ytEmbedPattern = regexp.MustCompile(`^https://(www\.)?youtube\.com/embed/[\w-]+`)
)

// registerValidators 注册自定义校验规则
func registerValidators() {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return
	}

	// 密码至少包含一个字母和一个数字
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pwd := fl.Field().String()
		return len(pwd) >= 6 && hasLetter.MatchString(pwd) && hasDigit.MatchString(pwd)
	})

	// YouTube 嵌入式播放地址
	_ = v.RegisterValidation("ytembed", func(fl validator.FieldLevel) bool {
		return ytEmbedPattern.MatchString(fl.Field().String())
	})

	// 电影类型必须在固定类型表内
	_ = v.RegisterValidation("moviegenre", func(fl validator.FieldLevel) bool {
		return model.ValidGenre(fl.Field().String())
	})
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	UserName string     `json:"userName" binding:"required,min=3,max=30"`
	Email    string     `json:"email" binding:"required,email"`
	Password string     `json:"password" binding:"required,strongpwd"`
	Role     model.Role `json:"role" binding:"omitempty,oneof=user admin"`
}

// LoginRequest 登录请求
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest 更新个人资料请求，零值字段不更新
type UpdateProfileRequest struct {
	UserName    string `json:"userName" binding:"omitempty,min=3,max=30"`
	Avatar      string `json:"avatar" binding:"omitempty,url"`
	Phone       string `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth string `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
}

// CreateMovieRequest 新建电影请求
type CreateMovieRequest struct {
	Title        string   `json:"title" binding:"required,max=200"`
	Overview     string   `json:"overview" binding:"required,min=10,max=1000"`
	PosterPath   string   `json:"posterPath" binding:"required"`
	BackdropPath string   `json:"backdropPath" binding:"required"`
	ReleaseDate  string   `json:"releaseDate" binding:"required,datetime=2006-01-02"`
	Rating       float64  `json:"rating" binding:"gte=0,lte=10"`
	TrailerURL   string   `json:"trailerUrl" binding:"omitempty,ytembed"`
	Genres       []string `json:"genres" binding:"omitempty,dive,moviegenre"`
	Runtime      int      `json:"runtime" binding:"omitempty,gte=1,lte=500"`
	Featured     *bool    `json:"featured"`
}

// UpdateMovieRequest 更新电影请求，只更新提交的字段
type UpdateMovieRequest struct {
	Title        *string  `json:"title" binding:"omitempty,max=200"`
	Overview     *string  `json:"overview" binding:"omitempty,min=10,max=1000"`
	PosterPath   *string  `json:"posterPath"`
	BackdropPath *string  `json:"backdropPath"`
	ReleaseDate  *string  `json:"releaseDate" binding:"omitempty,datetime=2006-01-02"`
	Rating       *float64 `json:"rating" binding:"omitempty,gte=0,lte=10"`
	TrailerURL   *string  `json:"trailerUrl" binding:"omitempty,ytembed"`
	Genres       []string `json:"genres" binding:"omitempty,dive,moviegenre"`
	Runtime      *int     `json:"runtime" binding:"omitempty,gte=1,lte=500"`
	Featured     *bool    `json:"featured"`
	IsActive     *bool    `json:"isActive"`
}

// WatchHistoryRequest 记录观影请求，请求体可省略
type WatchHistoryRequest struct {
	WatchDuration int `json:"watchDuration"`
}

// AdminUpdateUserRequest 管理端更新用户请求
type AdminUpdateUserRequest struct {
	UserName    string     `json:"userName" binding:"omitempty,min=3,max=30"`
	Email       string     `json:"email" binding:"omitempty,email"`
	Role        model.Role `json:"role" binding:"omitempty,oneof=user admin"`
	IsActive    *bool      `json:"isActive"`
	Avatar      string     `json:"avatar" binding:"omitempty,url"`
	Phone       string     `json:"phone" binding:"omitempty,max=20"`
	DateOfBirth string     `json:"dateOfBirth" binding:"omitempty,datetime=2006-01-02"`
}

// ResetPasswordRequest 管理端重置密码请求
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,strongpwd"`
}

// formatValidationErrors 把校验错误转成可读的错误信息列表
func formatValidationErrors(err error) []string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(errs))
	for _, fe := range errs {
		var msg string
		switch fe.Tag() {
		case "required":
			msg = fmt.Sprintf("%s 不能为空", fe.Field())
		case "email":
			msg = fmt.Sprintf("%s 不是有效的邮箱地址", fe.Field())
		case "min":
			msg = fmt.Sprintf("%s 长度不能小于 %s", fe.Field(), fe.Param())
		case "max":
			msg = fmt.Sprintf("%s 长度不能大于 %s", fe.Field(), fe.Param())
		case "gte":
			msg = fmt.Sprintf("%s 不能小于 %s", fe.Field(), fe.Param())
		case "lte":
			msg = fmt.Sprintf("%s 不能大于 %s", fe.Field(), fe.Param())
		case "oneof":
			msg = fmt.Sprintf("%s 必须是以下值之一: %s", fe.Field(), fe.Param())
		case "datetime":
			msg = fmt.Sprintf("%s 必须是 YYYY-MM-DD 格式的日期", fe.Field())
		case "url":
			msg = fmt.Sprintf("%s 不是有效的链接", fe.Field())
		case "strongpwd":
			msg = fmt.Sprintf("%s 至少 6 位且同时包含字母和数字", fe.Field())
		case "ytembed":
			msg = fmt.Sprintf("%s 必须是 YouTube 嵌入式播放地址", fe.Field())
		case "moviegenre":
			msg = fmt.Sprintf("%s 包含无效的电影类型", fe.Field())
		default:
			msg = fmt.Sprintf("%s 校验失败(%s)", fe.Field(), fe.Tag())
		}
		messages = append(messages, msg)
	}

	return messages
}
