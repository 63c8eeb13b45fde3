package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/config"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/utils"
)

// MovieListPage 电影列表查询的缓存单元
type MovieListPage struct {
	Movies []*model.Movie
	Total  int64
}

// Handler HTTP 处理器
type Handler struct {
	Repos     *repository.Repositories
	Config    *config.Config
	ListCache *utils.QueryCache[MovieListPage]
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config) *Handler {
	registerValidatorsOnce.Do(registerValidators)

	return &Handler{
		Repos:  repos,
		Config: cfg,
		// 列表查询缓存：最多 256 组查询条件，1 分钟有效
		ListCache: utils.NewQueryCache[MovieListPage](256, time.Minute),
	}
}

// invalidateMovieCaches 管理端电影写操作后清空相关缓存
func (h *Handler) invalidateMovieCaches() {
	h.ListCache.Clear()
	utils.CacheClear()
}

// parsePagination 解析 page/limit 查询参数
func parsePagination(c *gin.Context, defaultLimit int) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil || limit < 1 {
		limit = defaultLimit
	}
	if limit > 100 {
		limit = 100
	}

	return page, limit
}
