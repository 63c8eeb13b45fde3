package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/user/cinehub/internal/utils"
)

// Logger 请求日志中间件
func Logger(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		// 处理请求
		c.Next()

		// 记录日志
		log.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("ip", c.ClientIP()).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Msg("request")
	}
}

// Recovery 兜底恢复中间件，未分类的异常统一转成 500 响应
func Recovery(log zerolog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		detail := fmt.Sprintf("%v", recovered)
		log.Error().
			Str("path", c.Request.URL.Path).
			Str("panic", detail).
			Msg("recovered from panic")
		utils.InternalServerError(c, detail)
		c.Abort()
	})
}
