package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/handler"
	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/utils"
)

// RegisterRoutes 注册所有路由
func RegisterRoutes(r *gin.Engine, h *handler.Handler) {
	sessions := h.Repos.Session

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// ==================== 用户 ====================
	users := r.Group("/users")
	{
		users.POST("/register", h.Register)
		users.POST("/login", h.Login)

		authed := users.Group("")
		authed.Use(middleware.RequireAuth(sessions), middleware.RequireUser())
		{
			authed.POST("/logout", h.Logout)
			authed.GET("/verify-token", h.VerifyToken)
			authed.GET("/profile", h.GetProfile)
			authed.PUT("/profile", h.UpdateProfile)

			// 收藏
			authed.GET("/favorites", h.ListFavorites)
			authed.POST("/favorites/:movieId", h.AddFavorite)
			authed.DELETE("/favorites/:movieId", h.RemoveFavorite)

			// 观影历史
			authed.GET("/watch-history", h.GetWatchHistory)
			authed.POST("/watch-history/:movieId", h.AddWatchHistory)
		}
	}

	// ==================== 电影 ====================
	movies := r.Group("/movies")
	{
		// 公开查询接口，携带令牌时解析用户（详情页计观看数）
		public := movies.Group("")
		public.Use(middleware.OptionalAuth(sessions))
		{
			public.GET("", h.ListMovies)
			public.GET("/featured", h.FeaturedMovies)
			public.GET("/trending", h.TrendingMovies)
			public.GET("/genre/:genre", h.MoviesByGenre)
			public.GET("/:id", h.GetMovie)
		}

		// 统计和写操作只对管理员开放
		managed := movies.Group("")
		managed.Use(middleware.RequireAuth(sessions), middleware.RequireAdmin())
		{
			managed.GET("/stats", h.MovieStats)
			managed.POST("", h.CreateMovie)
			managed.PUT("/:id", h.UpdateMovie)
			managed.DELETE("/:id", h.DeleteMovie)
			managed.PATCH("/:id/featured", h.ToggleFeatured)
		}
	}

	// ==================== 管理后台 ====================
	admin := r.Group("/admin")
	admin.Use(middleware.RequireAuth(sessions), middleware.RequireAdmin())
	{
		admin.GET("/dashboard", h.Dashboard)
		admin.GET("/users", h.AdminUsers)
		admin.POST("/users", h.AdminCreateUser)
		admin.GET("/users/:id", h.AdminUserByID)
		admin.PUT("/users/:id", h.AdminUpdateUser)
		admin.DELETE("/users/:id", h.AdminDeleteUser)
		admin.POST("/users/:id/reset-password", h.AdminResetPassword)
	}

	// 未匹配的路由和方法
	r.NoRoute(func(c *gin.Context) {
		utils.NotFound(c, "接口不存在")
	})
	r.NoMethod(func(c *gin.Context) {
		utils.Error(c, http.StatusMethodNotAllowed, "不支持的请求方法")
	})
}
