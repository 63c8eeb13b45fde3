package model

import (
	"time"
)

// Favorite 收藏关系，(user_id, movie_id) 唯一
type Favorite struct {
	ID      int       `json:"id"`
	UserID  int       `json:"userId" gorm:"uniqueIndex:idx_fav_user_movie"`
	MovieID int       `json:"movieId" gorm:"uniqueIndex:idx_fav_user_movie"`
	AddedAt time.Time `json:"addedAt"`
	Movie   *Movie    `json:"movie,omitempty"` // 关联查询时填充
}

// WatchHistory 观影历史，(user_id, movie_id) 唯一
// 重复观看会把记录移动到最前，每个用户最多保留 100 条
type WatchHistory struct {
	ID            int       `json:"id"`
	UserID        int       `json:"userId" gorm:"uniqueIndex:idx_history_user_movie"`
	MovieID       int       `json:"movieId" gorm:"uniqueIndex:idx_history_user_movie"`
	WatchDuration int       `json:"watchDuration"`
	WatchedAt     time.Time `json:"watchedAt" gorm:"index"`
	Movie         *Movie    `json:"movie,omitempty"` // 关联查询时填充
}

// HistoryCap 每个用户观影历史上限
const HistoryCap = 100
