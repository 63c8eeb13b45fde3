package utils

import (
	"github.com/gin-gonic/gin"
)

// Response 统一API响应结构
type Response struct {
	Success    bool        `json:"success"`              // 是否成功
	Message    string      `json:"message,omitempty"`    // 消息
	Data       interface{} `json:"data,omitempty"`       // 数据
	Error      string      `json:"error,omitempty"`      // 错误详情
	Errors     []string    `json:"errors,omitempty"`     // 字段级校验错误
	Pagination *Pagination `json:"pagination,omitempty"` // 分页信息
}

// Pagination 分页信息
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination 计算分页信息，limit 最小按 1 计
func NewPagination(page, limit int, total int64) *Pagination {
	if limit < 1 {
		limit = 1
	}
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	return &Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}

// Success 返回成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{Success: true, Data: data})
}

// SuccessWithMessage 返回成功响应并自定义消息
func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(200, Response{Success: true, Message: message, Data: data})
}

// SuccessWithPagination 返回带分页的成功响应
func SuccessWithPagination(c *gin.Context, data interface{}, p *Pagination) {
	c.JSON(200, Response{Success: true, Data: data, Pagination: p})
}

// Created 返回201响应
func Created(c *gin.Context, message string, data interface{}) {
	c.JSON(201, Response{Success: true, Message: message, Data: data})
}

// Error 返回错误响应
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{Success: false, Message: message})
}

// BadRequest 返回400错误
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// ValidationFailed 返回400错误并附带字段级错误列表
func ValidationFailed(c *gin.Context, errs []string) {
	c.JSON(400, Response{Success: false, Message: "数据不合法", Errors: errs})
}

// Unauthorized 返回401错误
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "未登录"
	}
	Error(c, 401, message)
}

// Forbidden 返回403错误
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "没有权限"
	}
	Error(c, 403, message)
}

// NotFound 返回404错误
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "资源不存在"
	}
	Error(c, 404, message)
}

// InternalServerError 返回500错误，错误详情原样放入 error 字段
func InternalServerError(c *gin.Context, detail string) {
	c.JSON(500, Response{Success: false, Message: "服务器内部错误", Error: detail})
}
