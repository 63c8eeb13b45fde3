package handler

import (
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/user/cinehub/internal/middleware"
	"github.com/user/cinehub/internal/model"
	"github.com/user/cinehub/internal/repository"
	"github.com/user/cinehub/internal/utils"
)

// sampleTrailers 未提供预告片时的兜底地址
var sampleTrailers = []string{
	"https://www.youtube.com/embed/dQw4w9WgXcQ",
	"https://www.youtube.com/embed/TcMBFSGVi1c",
	"https://www.youtube.com/embed/8g18jFHCLXk",
	"https://www.youtube.com/embed/JfVOs4VSpmA",
}

// parseMovieQuery 解析电影列表查询参数
func parseMovieQuery(c *gin.Context) repository.MovieQuery {
	page, limit := parsePagination(c, 20)

	q := repository.MovieQuery{
		Search:    c.Query("search"),
		Genre:     c.Query("genre"),
		SortBy:    c.DefaultQuery("sortBy", "createdAt"),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
		Page:      page,
		Limit:     limit,
	}

	q.MinRating = 0
	if v, err := strconv.ParseFloat(c.Query("minRating"), 64); err == nil {
		q.MinRating = v
	}
	q.MaxRating = 10
	if v, err := strconv.ParseFloat(c.Query("maxRating"), 64); err == nil {
		q.MaxRating = v
	}
	if f := c.Query("featured"); f != "" {
		featured := f == "true"
		q.Featured = &featured
	}

	return q
}

// ListMovies 电影列表，相同查询条件短暂走缓存
func (h *Handler) ListMovies(c *gin.Context) {
	q := parseMovieQuery(c)

	cacheKey := c.Request.URL.RawQuery
	if page, ok := h.ListCache.Get(cacheKey); ok {
		utils.SuccessWithPagination(c, page.Movies, utils.NewPagination(q.Page, q.Limit, page.Total))
		return
	}

	movies, total, err := h.Repos.Movie.List(q)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	h.ListCache.Set(cacheKey, MovieListPage{Movies: movies, Total: total})

	utils.SuccessWithPagination(c, movies, utils.NewPagination(q.Page, q.Limit, total))
}

// GetMovie 电影详情
// 已登录用户访问会把观看数 +1，响应里是自增前的值
func (h *Handler) GetMovie(c *gin.Context) {
	id, ok := parseMovieID(c, "id")
	if !ok {
		return
	}

	movie, err := h.Repos.Movie.FindByID(id, true)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if movie == nil {
		utils.NotFound(c, "电影不存在")
		return
	}

	if _, authed := middleware.CurrentUser(c); authed {
		// 计数失败不影响读取
		_ = h.Repos.Movie.IncrementViewCount(id)
	}

	utils.Success(c, movie)
}

// CreateMovie 新建电影（管理员）
func (h *Handler) CreateMovie(c *gin.Context) {
	user, _ := middleware.CurrentUser(c)

	var req CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, formatValidationErrors(err))
		return
	}

	trailer := req.TrailerURL
	if trailer == "" {
		trailer = sampleTrailers[rand.Intn(len(sampleTrailers))]
	}

	movie := &model.Movie{
		Title:        req.Title,
		Overview:     req.Overview,
		PosterPath:   req.PosterPath,
		BackdropPath: req.BackdropPath,
		ReleaseDate:  req.ReleaseDate,
		Rating:       req.Rating,
		TrailerURL:   trailer,
		Genres:       req.Genres,
		Runtime:      req.Runtime,
		Featured:     req.Featured != nil && *req.Featured,
		IsActive:     true,
		CreatedByID:  &user.ID,
	}

	if err := h.Repos.Movie.Create(movie); err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	h.invalidateMovieCaches()

	utils.Created(c, "电影创建成功", movie)
}

// UpdateMovie 更新电影（管理员），只更新提交的字段
func (h *Handler) UpdateMovie(c *gin.Context) {
	id, ok := parseMovieID(c, "id")
	if !ok {
		return
	}

	var req UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ValidationFailed(c, formatValidationErrors(err))
		return
	}

	existing, err := h.Repos.Movie.FindByID(id, false)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if existing == nil {
		utils.NotFound(c, "电影不存在")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.Overview != nil {
		updates["overview"] = *req.Overview
	}
	if req.PosterPath != nil {
		updates["poster_path"] = *req.PosterPath
	}
	if req.BackdropPath != nil {
		updates["backdrop_path"] = *req.BackdropPath
	}
	if req.ReleaseDate != nil {
		updates["release_date"] = *req.ReleaseDate
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.TrailerURL != nil {
		updates["trailer_url"] = *req.TrailerURL
	}
	if req.Genres != nil {
		updates["genres"] = req.Genres
	}
	if req.Runtime != nil {
		updates["runtime"] = *req.Runtime
	}
	if req.Featured != nil {
		updates["featured"] = *req.Featured
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	// view_count / favorite_count / created_by 不接受外部写入

	if len(updates) == 0 {
		utils.SuccessWithMessage(c, "电影未变更", existing)
		return
	}

	updated, err := h.Repos.Movie.Update(id, updates)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if updated == nil {
		utils.NotFound(c, "电影不存在")
		return
	}
	h.invalidateMovieCaches()

	utils.SuccessWithMessage(c, "电影更新成功", updated)
}

// DeleteMovie 删除电影（管理员，软删除）
func (h *Handler) DeleteMovie(c *gin.Context) {
	id, ok := parseMovieID(c, "id")
	if !ok {
		return
	}

	deleted, err := h.Repos.Movie.SoftDelete(id)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if !deleted {
		utils.NotFound(c, "电影不存在")
		return
	}
	h.invalidateMovieCaches()

	utils.SuccessWithMessage(c, "电影已删除", nil)
}

// ToggleFeatured 切换精选状态（管理员）
func (h *Handler) ToggleFeatured(c *gin.Context) {
	id, ok := parseMovieID(c, "id")
	if !ok {
		return
	}

	found, featured, err := h.Repos.Movie.ToggleFeatured(id)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	if !found {
		utils.NotFound(c, "电影不存在")
		return
	}
	h.invalidateMovieCaches()

	message := "已取消精选"
	if featured {
		message = "已设为精选"
	}
	utils.SuccessWithMessage(c, message, gin.H{"featured": featured})
}

// FeaturedMovies 精选电影，结果短暂缓存
func (h *Handler) FeaturedMovies(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}

	key := fmt.Sprintf("movies:featured:%d", limit)
	if cached, ok := utils.CacheGet(key); ok {
		utils.Success(c, cached)
		return
	}

	movies, err := h.Repos.Movie.ListFeatured(limit)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.CacheSet(key, movies, 5*time.Minute)

	utils.Success(c, movies)
}

// TrendingMovies 热门电影，结果短暂缓存
func (h *Handler) TrendingMovies(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	period := c.DefaultQuery("period", "all")

	key := fmt.Sprintf("movies:trending:%s:%d", period, limit)
	if cached, ok := utils.CacheGet(key); ok {
		utils.Success(c, cached)
		return
	}

	movies, err := h.Repos.Movie.ListTrending(limit, period)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	utils.CacheSet(key, movies, 5*time.Minute)

	utils.Success(c, movies)
}

// MoviesByGenre 按类型查询电影
func (h *Handler) MoviesByGenre(c *gin.Context) {
	genre := c.Param("genre")
	if !model.ValidGenre(genre) {
		utils.BadRequest(c, "无效的电影类型")
		return
	}
	page, limit := parsePagination(c, 20)

	movies, total, err := h.Repos.Movie.ListByGenre(genre, page, limit)
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.SuccessWithPagination(c, movies, utils.NewPagination(page, limit, total))
}

// MovieStats 电影统计（管理员）
func (h *Handler) MovieStats(c *gin.Context) {
	overview, err := h.Repos.Movie.Stats()
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}
	genreStats, err := h.Repos.Movie.GenreStats()
	if err != nil {
		utils.InternalServerError(c, err.Error())
		return
	}

	utils.Success(c, gin.H{
		"overview":   overview,
		"genreStats": genreStats,
	})
}
