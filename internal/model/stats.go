package model

// UserStats 用户统计
type UserStats struct {
	TotalUsers   int64 `json:"totalUsers"`
	ActiveUsers  int64 `json:"activeUsers"`
	AdminUsers   int64 `json:"adminUsers"`
	RegularUsers int64 `json:"regularUsers"`
}

// MovieStats 电影统计
type MovieStats struct {
	TotalMovies    int64   `json:"totalMovies"`
	ActiveMovies   int64   `json:"activeMovies"`
	FeaturedMovies int64   `json:"featuredMovies"`
	TotalViews     int64   `json:"totalViews"`
	TotalFavorites int64   `json:"totalFavorites"`
	AvgRating      float64 `json:"avgRating"`
}

// GenreStat 单个类型的统计
type GenreStat struct {
	Genre      string  `json:"genre"`
	Count      int64   `json:"count"`
	AvgRating  float64 `json:"avgRating"`
	TotalViews int64   `json:"totalViews"`
}

// TopMovie 仪表盘 Top 榜单条目
type TopMovie struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	ViewCount int64   `json:"viewCount"`
	Rating    float64 `json:"rating"`
}
