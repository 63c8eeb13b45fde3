package handler

import (
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/utils"
)

// parseMovieID 解析路径中的电影 ID
func parseMovieID(c *gin.Context, param string) (int, bool) {
	id, err := strconv.Atoi(c.Param(param))
	if err != nil || id < 1 {
		utils.BadRequest(c, "无效的电影 ID")
		return 0, false
	}
	return id, true
}

// AddFavorite 添加收藏
func (h *Handler) AddFavorite(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	movieID, ok := parseMovieID(c, "movieId")
	if !ok {
		return
	}

	movie, err := h.Repos.Movie.FindByID(movieID, true)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if movie == nil {
		utils.NotFound(c, "电影不存在")
		return
	}

	favorite, err := h.Repos.Favorite.Add(user.ID, movieID)
	if errors.Is(err, repository.ErrAlreadyFavorited) {
		utils.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "已加入收藏", gin.H{
		"movieId": movieID,
		"addedAt": favorite.AddedAt,
	})
}

// RemoveFavorite 取消收藏
func (h *Handler) RemoveFavorite(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	movieID, ok := parseMovieID(c, "movieId")
	if !ok {
		return
	}

	err := h.Repos.Favorite.Remove(user.ID, movieID)
	if errors.Is(err, repository.ErrNotFavorited) {
		utils.BadRequest(c, err.Error())
		return
	}
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "已取消收藏", nil)
}

// favoriteItem 收藏列表条目
type favoriteItem struct {
	model.MovieSummary
	AddedAt time.Time `json:"addedAt"`
}

// ListFavorites 获取收藏列表（最近添加在前）
func (h *Handler) ListFavorites(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	favorites, err := h.Repos.Favorite.ListByUser(user.ID)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	items := make([]favoriteItem, 0, len(favorites))
	for _, f := range favorites {
		if f.Movie == nil {
			continue
		}
		items = append(items, favoriteItem{
			MovieSummary: f.Movie.Summary(),
			AddedAt:      f.AddedAt,
		})
	}

	utils.Success(c, items)
}

// AddWatchHistory 记录观影
// 重复观看同一部电影会刷新记录并移到最前
func (h *Handler) AddWatchHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	movieID, ok := parseMovieID(c, "movieId")
	if !ok {
		return
	}

	// 请求体可选，只带 watchDuration
	var req WatchHistoryRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		utils.BadRequest(c, "请求体不合法")
		return
	}

	movie, err := h.Repos.Movie.FindByID(movieID, true)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if movie == nil {
		utils.NotFound(c, "电影不存在")
		return
	}

	entry, err := h.Repos.History.Upsert(user.ID, movieID, req.WatchDuration)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithMessage(c, "已记录观影", gin.H{
		"movieId":       movieID,
		"watchDuration": entry.WatchDuration,
		"watchedAt":     entry.WatchedAt,
	})
}

// historyItem 观影历史条目
type historyItem struct {
	model.MovieSummary
	WatchDuration int       `json:"watchDuration"`
	WatchedAt     time.Time `json:"watchedAt"`
}

// GetWatchHistory 获取观影历史（最近观看在前，分页）
func (h *Handler) GetWatchHistory(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)
	page, limit := parsePagination(c, 20)

	histories, total, err := h.Repos.History.ListByUser(user.ID, page, limit)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	items := make([]historyItem, 0, len(histories))
	for _, entry := range histories {
		if entry.Movie == nil {
			continue
		}
		items = append(items, historyItem{
			MovieSummary:  entry.Movie.Summary(),
			WatchDuration: entry.WatchDuration,
			WatchedAt:     entry.WatchedAt,
		})
	}

	utils.SuccessWithPagination(c, items, utils.NewPagination(page, limit, total))
}
