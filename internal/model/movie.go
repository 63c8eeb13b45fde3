package model

import (
	"time"
)

// ValidGenres 电影类型封闭枚举
var ValidGenres = []string{
	"Action", "Adventure", "Animation", "Comedy", "Crime", "Documentary",
	"Drama", "Family", "Fantasy", "Horror", "Music", "Mystery", "Romance",
	"Science Fiction", "Thriller", "War", "Western",
}

// ValidGenre 校验类型是否在枚举范围内
func ValidGenre(genre string) bool {
	for _, g := range ValidGenres {
		if g == genre {
			return true
		}
	}
	return false
}

// Movie 电影模型
// Genres 以 JSON 序列化存储，ReleaseDate 使用 YYYY-MM-DD 字符串
type Movie struct {
	ID            int       `json:"id"`
	Title         string    `json:"title" gorm:"size:200;index"`
	Overview      string    `json:"overview" gorm:"size:1000"`
	PosterPath    string    `json:"posterPath"`
	BackdropPath  string    `json:"backdropPath"`
	ReleaseDate   string    `json:"releaseDate" gorm:"size:10;index"`
	Rating        float64   `json:"rating" gorm:"index"`
	TrailerURL    string    `json:"trailerUrl" gorm:"column:trailer_url"`
	Genres        []string  `json:"genres" gorm:"serializer:json;type:text"`
	Runtime       int       `json:"runtime"`
	ViewCount     int64     `json:"viewCount" gorm:"index"`
	FavoriteCount int64     `json:"favoriteCount"`
	Featured      bool      `json:"featured" gorm:"index"`
	IsActive      bool      `json:"isActive" gorm:"index"`
	CreatedByID   *int      `json:"-" gorm:"column:created_by"`
	CreatedBy     *User     `json:"createdBy,omitempty" gorm:"foreignKey:CreatedByID"`
	CreatedAt     time.Time `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// MovieSummary 收藏/历史列表中返回的电影投影
type MovieSummary struct {
	ID           int      `json:"id"`
	Title        string   `json:"title"`
	Overview     string   `json:"overview"`
	PosterPath   string   `json:"posterPath"`
	BackdropPath string   `json:"backdropPath"`
	ReleaseDate  string   `json:"releaseDate"`
	Rating       float64  `json:"rating"`
	Genres       []string `json:"genres"`
	Runtime      int      `json:"runtime,omitempty"`
}

// Summary 生成电影投影
func (m *Movie) Summary() MovieSummary {
	return MovieSummary{
		ID:           m.ID,
		Title:        m.Title,
		Overview:     m.Overview,
		PosterPath:   m.PosterPath,
		BackdropPath: m.BackdropPath,
		ReleaseDate:  m.ReleaseDate,
		Rating:       m.Rating,
		Genres:       m.Genres,
		Runtime:      m.Runtime,
	}
}
