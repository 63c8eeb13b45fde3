package repository

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/user/cinehub/internal/model"
	"gorm.io/gorm"
)

type MovieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// sortColumns 列表排序字段白名单（请求参数 -> 数据库列）
var sortColumns = map[string]string{
	"createdAt":     "created_at",
	"releaseDate":   "release_date",
	"rating":        "rating",
	"title":         "title",
	"runtime":       "runtime",
	"viewCount":     "view_count",
	"favoriteCount": "favorite_count",
}

// MovieQuery 电影列表查询参数
type MovieQuery struct {
	Search    string
	Genre     string
	Featured  *bool
	MinRating float64
	MaxRating float64
	SortBy    string
	SortOrder string
	Page      int
	Limit     int
}

// Create 创建电影
func (r *MovieRepository) Create(movie *model.Movie) error {
	return r.db.Create(movie).Error
}

// FindByID 根据 ID 查找电影，activeOnly 为 true 时只返回未下架的
func (r *MovieRepository) FindByID(id int, activeOnly bool) (*model.Movie, error) {
	tx := r.db.Preload("CreatedBy").Where("id = ?", id)
	if activeOnly {
		tx = tx.Where("is_active = ?", true)
	}

	var movie model.Movie
	err := tx.First(&movie).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &movie, nil
}

// List 电影列表（搜索/类型/精选/评分过滤 + 排序 + 分页），只返回未下架的
func (r *MovieRepository) List(q MovieQuery) ([]*model.Movie, int64, error) {
	tx := r.db.Model(&model.Movie{}).Where("is_active = ?", true)

	if q.Search != "" {
		pattern := "%" + strings.ToLower(q.Search) + "%"
		tx = tx.Where("LOWER(title) LIKE ? OR LOWER(overview) LIKE ?", pattern, pattern)
	}
	if q.Genre != "" {
		// Genres 以 JSON 数组文本存储，按带引号的成员匹配
		tx = tx.Where("genres LIKE ?", `%"`+q.Genre+`"%`)
	}
	if q.Featured != nil {
		tx = tx.Where("featured = ?", *q.Featured)
	}
	tx = tx.Where("rating >= ? AND rating <= ?", q.MinRating, q.MaxRating)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[q.SortBy]
	if !ok {
		column = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(q.SortOrder, "asc") {
		direction = "ASC"
	}

	var movies []*model.Movie
	err := tx.Preload("CreatedBy").
		Order(column + " " + direction).
		Offset((q.Page - 1) * q.Limit).
		Limit(q.Limit).
		Find(&movies).Error
	return movies, total, err
}

// ListFeatured 精选电影，按评分和热度倒序
func (r *MovieRepository) ListFeatured(limit int) ([]*model.Movie, error) {
	var movies []*model.Movie
	err := r.db.Preload("CreatedBy").
		Where("featured = ? AND is_active = ?", true, true).
		Order("rating DESC, view_count DESC").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// ListTrending 热门电影，按观看数和收藏数倒序
// period 为 week/month 时只统计该时间窗内新增的电影
func (r *MovieRepository) ListTrending(limit int, period string) ([]*model.Movie, error) {
	tx := r.db.Preload("CreatedBy").Where("is_active = ?", true)

	switch period {
	case "week":
		tx = tx.Where("created_at >= ?", time.Now().AddDate(0, 0, -7))
	case "month":
		tx = tx.Where("created_at >= ?", time.Now().AddDate(0, -1, 0))
	}

	var movies []*model.Movie
	err := tx.Order("view_count DESC, favorite_count DESC").
		Limit(limit).
		Find(&movies).Error
	return movies, err
}

// ListByGenre 按类型查询电影，评分倒序
func (r *MovieRepository) ListByGenre(genre string, page, limit int) ([]*model.Movie, int64, error) {
	tx := r.db.Model(&model.Movie{}).
		Where("is_active = ? AND genres LIKE ?", true, `%"`+genre+`"%`)

	var total int64
	if err := tx.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movies []*model.Movie
	err := tx.Order("rating DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&movies).Error
	return movies, total, err
}

// Update 按字段更新电影，返回更新后的记录
func (r *MovieRepository) Update(id int, updates map[string]interface{}) (*model.Movie, error) {
	res := r.db.Model(&model.Movie{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return r.FindByID(id, false)
}

// SoftDelete 软删除电影（下架，不删行）
func (r *MovieRepository) SoftDelete(id int) (bool, error) {
	res := r.db.Model(&model.Movie{}).Where("id = ?", id).Update("is_active", false)
	return res.RowsAffected > 0, res.Error
}

// ToggleFeatured 切换精选状态，返回切换后的值
func (r *MovieRepository) ToggleFeatured(id int) (bool, bool, error) {
	movie, err := r.FindByID(id, false)
	if err != nil || movie == nil {
		return false, false, err
	}

	movie.Featured = !movie.Featured
	if err := r.db.Model(&model.Movie{}).Where("id = ?", id).
		Update("featured", movie.Featured).Error; err != nil {
		return false, false, err
	}

	return true, movie.Featured, nil
}

// IncrementViewCount 观看数 +1（详情页隐式信号，不去重）
func (r *MovieRepository) IncrementViewCount(id int) error {
	return r.db.Model(&model.Movie{}).Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// TopByViews 观看数 Top N
func (r *MovieRepository) TopByViews(limit int) ([]*model.TopMovie, error) {
	var top []*model.TopMovie
	err := r.db.Model(&model.Movie{}).
		Select("id, title, view_count, rating").
		Where("is_active = ?", true).
		Order("view_count DESC").
		Limit(limit).
		Scan(&top).Error
	return top, err
}

// Stats 电影维度统计
func (r *MovieRepository) Stats() (*model.MovieStats, error) {
	var stats model.MovieStats
	err := r.db.Model(&model.Movie{}).
		Select(
			"COUNT(*) AS total_movies, "+
				"COALESCE(SUM(CASE WHEN is_active = ? THEN 1 ELSE 0 END), 0) AS active_movies, "+
				"COALESCE(SUM(CASE WHEN featured = ? THEN 1 ELSE 0 END), 0) AS featured_movies, "+
				"COALESCE(SUM(view_count), 0) AS total_views, "+
				"COALESCE(SUM(favorite_count), 0) AS total_favorites, "+
				"COALESCE(AVG(rating), 0) AS avg_rating",
			true, true).
		Scan(&stats).Error
	return &stats, err
}

// GenreStats 按类型统计
// Genres 是 JSON 文本列，无法在 SQL 里展开，取出后在内存中按枚举聚合
func (r *MovieRepository) GenreStats() ([]*model.GenreStat, error) {
	var movies []*model.Movie
	err := r.db.Select("genres, rating, view_count").
		Where("is_active = ?", true).
		Find(&movies).Error
	if err != nil {
		return nil, err
	}

	byGenre := make(map[string]*model.GenreStat)
	ratingSum := make(map[string]float64)
	for _, m := range movies {
		for _, g := range m.Genres {
			stat, ok := byGenre[g]
			if !ok {
				stat = &model.GenreStat{Genre: g}
				byGenre[g] = stat
			}
			stat.Count++
			stat.TotalViews += m.ViewCount
			ratingSum[g] += m.Rating
		}
	}

	stats := make([]*model.GenreStat, 0, len(byGenre))
	for g, stat := range byGenre {
		stat.AvgRating = ratingSum[g] / float64(stat.Count)
		stats = append(stats, stat)
	}

	// 数量倒序
	sort.Slice(stats, func(i, j int) bool { return stats[i].Count > stats[j].Count })

	return stats, nil
}
